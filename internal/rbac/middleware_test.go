package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"restaurant-api/internal/auth"

	"github.com/gin-gonic/gin"
)

func withStatus(status string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if status != "" {
			ctx := auth.WithClaims(c.Request.Context(), auth.ClaimSet{UserID: "u", Status: status})
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}

func serve(t *testing.T, chain ...gin.HandlerFunc) int {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/x", append(chain, func(c *gin.Context) { c.Status(200) })...)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	return w.Code
}

func TestRequireAnyStatus_AdminBypasses(t *testing.T) {
	if code := serve(t, withStatus(StatusAdmin), RequireAnyStatus(StatusCustomer)); code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
}

func TestRequireAnyStatus_AllowedStatus(t *testing.T) {
	if code := serve(t, withStatus(StatusCustomer), RequireAnyStatus(StatusCustomer)); code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
}

func TestRequireAdmin_CustomerForbidden(t *testing.T) {
	if code := serve(t, withStatus(StatusCustomer), RequireAdmin()); code != 403 {
		t.Fatalf("expected 403, got %d", code)
	}
}

func TestRequireAnyStatus_IdentityRequired(t *testing.T) {
	if code := serve(t, withStatus(""), RequireAnyStatus(StatusCustomer)); code != 401 {
		t.Fatalf("expected 401, got %d", code)
	}
}
