package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lingloop/player-api/api/types"
	"github.com/lingloop/player-api/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		setupDeps      func() *types.Dependencies
		expectedStatus int
		expectedDB     string
	}{
		{
			name: "healthy with database",
			setupDeps: func() *types.Dependencies {
				db, err := database.Initialize(":memory:", false)
				require.NoError(t, err)
				return &types.Dependencies{DB: db}
			},
			expectedStatus: http.StatusOK,
			expectedDB:     "healthy",
		},
		{
			name: "healthy without database",
			setupDeps: func() *types.Dependencies {
				return &types.Dependencies{}
			},
			expectedStatus: http.StatusOK,
			expectedDB:     "not configured",
		},
		{
			name: "unhealthy with closed database",
			setupDeps: func() *types.Dependencies {
				db, err := database.Initialize(":memory:", false)
				require.NoError(t, err)

				sqlDB, _ := db.DB.DB()
				sqlDB.Close()

				return &types.Dependencies{DB: db}
			},
			expectedStatus: http.StatusOK,
			expectedDB:     "unhealthy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			deps := tt.setupDeps()
			handler := Get(deps)

			handler(c)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			err := json.Unmarshal(w.Body.Bytes(), &response)
			require.NoError(t, err)

			assert.Equal(t, "ok", response["status"])
			assert.NotEmpty(t, response["timestamp"])

			dbStatus, ok := response["database"].(map[string]interface{})
			require.True(t, ok, "response should carry a database status object")
			assert.Equal(t, tt.expectedDB, dbStatus["status"])

			// Cleanup
			if deps.DB != nil && deps.DB.DB != nil {
				if sqlDB, err := deps.DB.DB.DB(); err == nil {
					sqlDB.Close()
				}
			}
		})
	}
}

func TestGetDatabaseStatus(t *testing.T) {
	tests := []struct {
		name      string
		setupDeps func() *types.Dependencies
		expected  string
	}{
		{
			name: "nil database",
			setupDeps: func() *types.Dependencies {
				return &types.Dependencies{}
			},
			expected: "not configured",
		},
		{
			name: "healthy database",
			setupDeps: func() *types.Dependencies {
				db, err := database.Initialize(":memory:", false)
				require.NoError(t, err)
				return &types.Dependencies{DB: db}
			},
			expected: "healthy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := tt.setupDeps()
			status := getDatabaseStatus(deps)

			assert.Equal(t, tt.expected, status["status"])

			// Cleanup
			if deps.DB != nil && deps.DB.DB != nil {
				if sqlDB, err := deps.DB.DB.DB(); err == nil {
					sqlDB.Close()
				}
			}
		})
	}
}
