// file: controllers/helpers_test.go
package controllers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// setupTestRouter creates a Gin engine with sessions and minimal templates
// that print the fields the assertions look for.
func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()

	store := cookie.NewStore([]byte("test-secret"))
	router.Use(sessions.Sessions("testsession", store))

	tmpDir := t.TempDir()
	if err := createDummyTemplates(tmpDir); err != nil {
		t.Fatalf("Failed to create dummy templates: %v", err)
	}
	router.SetFuncMap(TemplateFuncs())
	router.LoadHTMLGlob(filepath.Join(tmpDir, "*.html"))
	return router
}

func createDummyTemplates(dir string) error {
	templates := map[string]string{
		"index.html":        `index {{range .Competitions}}[{{.Name}}]{{end}} flash={{.Flash}}`,
		"competitions.html": `archive {{range .Competitions}}[{{.Name}}]{{end}}`,
		"competition.html":  `competition {{.Competition.Name}} {{range .Competition.Matches}}[{{.TeamAName}} {{.ShortID}}]{{end}} flash={{.Flash}}`,
		"match.html":        `match {{.Match.TeamAName}} {{.Match.Scores.TeamA}}-{{.Match.Scores.TeamB}} active={{.Match.IsActive}} flash={{.Flash}}`,
		"not_found.html":    `not found {{.Path}}`,
		"error.html":        `error {{.Message}}`,
	}
	for name, content := range templates {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			return err
		}
	}
	return nil
}
