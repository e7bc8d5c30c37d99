package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/resource-planning-api/internal/dto"
	"github.com/yukikurage/resource-planning-api/internal/models"
	"github.com/yukikurage/resource-planning-api/internal/services"
)

func TestOrganizationHandler_Access(t *testing.T) {
	env := setupHandlerTestEnv(t)

	_, _, err := env.svc.Organizations.CreateOrganization(services.CreateOrganizationInput{
		Name:           "Other",
		SuperuserEmail: "owner@other.test",
		SuperuserName:  "Owner",
	})
	require.NoError(t, err)

	anonymous := env.client(t)
	w := anonymous.do(http.MethodGet, fmt.Sprintf("/api/organizations/%d", env.org.ID), nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	outsider := env.client(t)
	outsider.login("owner@other.test")
	w = outsider.do(http.MethodGet, fmt.Sprintf("/api/organizations/%d/projects", env.org.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "non-members cannot tell the organization exists")

	w = outsider.do(http.MethodGet, "/api/organizations/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	boss := env.client(t)
	boss.login("boss@acme.test")
	w = boss.do(http.MethodGet, fmt.Sprintf("/api/organizations/%d", env.org.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	org := decode[dto.OrganizationWithRoleDTO](t, w)
	assert.Equal(t, "Acme", org.Name)
	assert.Equal(t, models.RoleSuperuser, org.Role)
}

func TestOrganizationHandler_UserManagement(t *testing.T) {
	env := setupHandlerTestEnv(t)
	base := fmt.Sprintf("/api/organizations/%d/users", env.org.ID)

	boss := env.client(t)
	boss.login("boss@acme.test")

	w := boss.do(http.MethodPost, base, map[string]string{"email": "normal@acme.test", "name": "Normal"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	normal := decode[dto.UserDTO](t, w)

	w = boss.do(http.MethodPost, base, map[string]string{"email": "normal@acme.test", "name": "Again"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = boss.do(http.MethodPost, base, map[string]string{"email": "su@acme.test", "name": "Su", "role": "Superuser"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = boss.do(http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	members := decode[map[string][]dto.OrganizationMemberDTO](t, w)["members"]
	require.Len(t, members, 2)

	normalClient := env.client(t)
	normalClient.login("normal@acme.test")
	w = normalClient.do(http.MethodGet, base, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = boss.do(http.MethodPatch, fmt.Sprintf("%s/%d/status", base, normal.ID), map[string]bool{"is_active": false})
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[dto.UserDTO](t, w).IsActive)

	w = boss.do(http.MethodPatch, fmt.Sprintf("%s/%d/status", base, env.superuser.ID), map[string]bool{"is_active": false})
	assert.Equal(t, http.StatusForbidden, w.Code, "nobody deactivates themselves")

	w = boss.do(http.MethodPatch, fmt.Sprintf("%s/%d/status", base, normal.ID), map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrganizationHandler_PlatformAdmin(t *testing.T) {
	env := setupHandlerTestEnv(t)

	_, err := env.svc.Organizations.CreatePlatformAdmin("root@platform.test", "Root")
	require.NoError(t, err)

	boss := env.client(t)
	boss.login("boss@acme.test")
	w := boss.do(http.MethodGet, "/api/admin/organizations", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	admin := env.client(t)
	admin.login("root@platform.test")

	w = admin.do(http.MethodPost, "/api/admin/organizations", map[string]any{
		"name":            "Globex",
		"max_users":       3,
		"superuser_email": "hank@globex.test",
		"superuser_name":  "Hank",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[dto.OrganizationDTO](t, w)
	assert.Equal(t, 3, created.MaxUsers)
	require.NotNil(t, created.Superuser)
	assert.Equal(t, "hank@globex.test", created.Superuser.Email)

	w = admin.do(http.MethodGet, "/api/admin/organizations", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[map[string][]dto.OrganizationDTO](t, w)["organizations"], 2)

	w = admin.do(http.MethodGet, "/api/admin/admins", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[map[string][]dto.UserDTO](t, w)["admins"], 1)
}

func TestOrganizationHandler_UpdateOrganization(t *testing.T) {
	env := setupHandlerTestEnv(t)
	handler := NewOrganizationHandler(env.svc.Organizations)

	body, err := json.Marshal(map[string]string{"name": "Acme Ltd"})
	require.NoError(t, err)

	c, w := handlerTestContext(http.MethodPut, "/", body, env.superuser.ID, env.org, models.RolePrivileged)
	handler.UpdateOrganization(c)
	assert.Equal(t, http.StatusForbidden, w.Code)

	c, w = handlerTestContext(http.MethodPut, "/", body, env.superuser.ID, env.org, models.RoleSuperuser)
	handler.UpdateOrganization(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Acme Ltd", decode[dto.OrganizationDTO](t, w).Name)

	body, err = json.Marshal(map[string]string{"name": "   "})
	require.NoError(t, err)
	c, w = handlerTestContext(http.MethodPut, "/", body, env.superuser.ID, env.org, models.RoleSuperuser)
	handler.UpdateOrganization(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
