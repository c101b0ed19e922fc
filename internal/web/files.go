// Package web serves stored uploads back to clients.
package web

import (
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/labstack/echo/v4"
)

// RegisterUploadRoutes serves regular files from uploadDir under
// /<prefix>/. Directories and dotfiles are never served.
func RegisterUploadRoutes(e *echo.Echo, prefix, uploadDir string) {
	prefix = "/" + strings.Trim(prefix, "/")
	uploads := os.DirFS(uploadDir)
	fileServer := http.StripPrefix(prefix, http.FileServer(http.FS(uploads)))

	e.GET(prefix+"/*", func(c echo.Context) error {
		name := path.Clean(strings.TrimPrefix(c.Request().URL.Path, prefix+"/"))
		if name == "." || strings.HasPrefix(path.Base(name), ".") || strings.Contains(name, "/") {
			return echo.ErrNotFound
		}

		stat, err := fs.Stat(uploads, name)
		if err != nil || !stat.Mode().IsRegular() {
			return echo.ErrNotFound
		}

		c.Response().Header().Set("X-Content-Type-Options", "nosniff")
		fileServer.ServeHTTP(c.Response(), c.Request())
		return nil
	})
}
