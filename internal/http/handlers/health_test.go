package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freedom_case_2/replydraft/internal/db"
	"github.com/freedom_case_2/replydraft/internal/templates"
)

func TestHealthzReportsStore(t *testing.T) {
	tests := []struct {
		name string
		repo func(t *testing.T) templates.Repository
		want string
	}{
		{
			name: "memory",
			repo: func(*testing.T) templates.Repository { return templates.NewMemoryRepository() },
			want: `"store":"memory"`,
		},
		{
			name: "postgres",
			repo: func(t *testing.T) templates.Repository {
				url := os.Getenv("TEST_DATABASE_URL")
				if url == "" {
					t.Skip("TEST_DATABASE_URL not set")
				}
				store, err := db.New(context.Background(), url)
				require.NoError(t, err)
				t.Cleanup(store.Close)
				return store
			},
			want: `"store":"postgres"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &Handler{Templates: tt.repo(t), Logger: zerolog.Nop()}
			r := gin.New()
			r.GET("/healthz", h.Healthz)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), tt.want)
		})
	}
}
