package infisical_test

import (
	"context"
	"net/http"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/infisical-go/pkg/infisical"
	"github.com/systmms/infisical-go/tests/fakes"
)

func TestListSecretsExportsToEnv(t *testing.T) {
	t.Parallel()

	srv := fakes.NewFakeInfisicalServer()
	defer srv.Close()
	srv.SetSecret("dev", "/", "TEST_KEY", "TEST_VALUE")

	env := infisical.NewMapEnv(nil)
	client := newTestClient(t, srv, infisical.WithEnvStore(env))

	opts, err := infisical.NewListSecretsOptionsBuilder().
		WithProjectID("p1").
		WithEnvironment("dev").
		WithRecursive(true).
		WithExportToEnv(true).
		Build()
	require.NoError(t, err)

	secrets, err := client.Secrets().ListSecrets(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, secrets, 1)
	assert.Equal(t, "TEST_KEY", secrets[0].SecretKey)
	assert.Equal(t, map[string]string{"TEST_KEY": "TEST_VALUE"}, env.Snapshot())

	last, _ := srv.LastRequest()
	assert.Equal(t, http.MethodGet, last.Method)
	assert.Equal(t, "/api/v3/secrets/raw", last.Path)
	assert.Equal(t, "p1", last.Query.Get("workspaceId"))
	assert.Equal(t, "dev", last.Query.Get("environment"))
	assert.Equal(t, "true", last.Query.Get("recursive"))
	assert.Equal(t, "/", last.Query.Get("secretPath"))
	assert.Equal(t, "true", last.Query.Get("include_imports"))
	assert.Equal(t, "true", last.Query.Get("expandSecretReferences"))
	assert.False(t, last.Query.Has("tagSlugs"))
}

func TestListSecretsKeepsExistingEnv(t *testing.T) {
	t.Parallel()

	srv := fakes.NewFakeInfisicalServer()
	defer srv.Close()
	srv.SetSecret("dev", "/", "K", "V1")
	srv.SetSecret("dev", "/", "NEW", "N")

	env := infisical.NewMapEnv(map[string]string{"K": "V0"})
	client := newTestClient(t, srv, infisical.WithEnvStore(env))

	opts, err := infisical.NewListSecretsOptionsBuilder().WithProjectID("p").WithEnvironment("dev").WithExportToEnv(true).Build()
	require.NoError(t, err)

	_, err = client.Secrets().ListSecrets(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"K": "V0", "NEW": "N"}, env.Snapshot())
}

func TestListSecretsExportsToProcessEnv(t *testing.T) {
	srv := fakes.NewFakeInfisicalServer()
	defer srv.Close()
	srv.SetSecret("dev", "/", "INFISICAL_GO_LIST_PRESET", "from-server")
	srv.SetSecret("dev", "/", "INFISICAL_GO_LIST_ABSENT", "from-server")

	t.Setenv("INFISICAL_GO_LIST_PRESET", "local")
	t.Setenv("INFISICAL_GO_LIST_ABSENT", "")
	require.NoError(t, os.Unsetenv("INFISICAL_GO_LIST_ABSENT"))

	client := newTestClient(t, srv)
	opts, err := infisical.NewListSecretsOptionsBuilder().WithProjectID("p").WithEnvironment("dev").WithExportToEnv(true).Build()
	require.NoError(t, err)

	_, err = client.Secrets().ListSecrets(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, "local", os.Getenv("INFISICAL_GO_LIST_PRESET"))
	assert.Equal(t, "from-server", os.Getenv("INFISICAL_GO_LIST_ABSENT"))
}

func TestListSecretsMergesImports(t *testing.T) {
	t.Parallel()

	srv := fakes.NewFakeInfisicalServer()
	defer srv.Close()
	srv.SetSecret("dev", "/", "A", "1")
	srv.SetImports("dev", "/", infisical.Import{
		SecretPath:  "/sub",
		Environment: "dev",
		Secrets: []infisical.Secret{
			{SecretKey: "A", SecretValue: "2"},
			{SecretKey: "B", SecretValue: "3", SecretPath: "/ignored"},
		},
	})

	client := newTestClient(t, srv, infisical.WithEnvStore(infisical.NewMapEnv(nil)))
	opts, err := infisical.NewListSecretsOptionsBuilder().WithProjectID("p").WithEnvironment("dev").WithRecursive(true).Build()
	require.NoError(t, err)

	secrets, err := client.Secrets().ListSecrets(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, secrets, 2)

	assert.Equal(t, "A", secrets[0].SecretKey)
	assert.Equal(t, "1", secrets[0].SecretValue)
	assert.Equal(t, "/", secrets[0].SecretPath)
	assert.Equal(t, "B", secrets[1].SecretKey)
	assert.Equal(t, "3", secrets[1].SecretValue)
	assert.Equal(t, "/sub", secrets[1].SecretPath)
}

func TestListSecretsQueryOptions(t *testing.T) {
	t.Parallel()

	srv := fakes.NewFakeInfisicalServer()
	defer srv.Close()

	client := newTestClient(t, srv)
	opts, err := infisical.NewListSecretsOptionsBuilder().
		WithProjectID("p").
		WithEnvironment("staging").
		WithSecretPath("/app").
		WithTagSlugs([]string{"db", "cache"}).
		WithExpandSecretReferences(false).
		Build()
	require.NoError(t, err)

	secrets, err := client.Secrets().ListSecrets(context.Background(), opts)
	require.NoError(t, err)
	assert.Empty(t, secrets)

	last, _ := srv.LastRequest()
	assert.Equal(t, "/app", last.Query.Get("secretPath"))
	assert.Equal(t, "db,cache", last.Query.Get("tagSlugs"))
	assert.Equal(t, "false", last.Query.Get("recursive"))
	assert.Equal(t, "false", last.Query.Get("expandSecretReferences"))
}

func TestGetSecret(t *testing.T) {
	t.Parallel()

	srv := fakes.NewFakeInfisicalServer()
	defer srv.Close()
	srv.SetSecret("dev", "/", "DB_URL", "postgres://db")

	client := newTestClient(t, srv)

	tests := []struct {
		name        string
		key         string
		version     uint
		want        string
		wantStatus  int
		wantMessage string
	}{
		{name: "found", key: "DB_URL", want: "postgres://db"},
		{name: "found_with_version", key: "DB_URL", version: 3, want: "postgres://db"},
		{name: "not_found", key: "MISSING", wantStatus: 404, wantMessage: "Secret with name 'MISSING' not found"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			opts, err := infisical.NewGetSecretOptionsBuilder().
				WithProjectID("p").
				WithEnvironment("dev").
				WithSecretKey(tt.key).
				WithVersion(tt.version).
				Build()
			require.NoError(t, err)

			got, err := client.Secrets().GetSecret(context.Background(), opts)
			if tt.wantStatus != 0 {
				var apiErr *infisical.APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
				assert.Equal(t, tt.wantMessage, apiErr.Message)
				assert.True(t, infisical.IsNotFound(err))
				assert.Contains(t, err.Error(), "[status-code=404]")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.SecretValue)

			last, _ := srv.LastRequest()
			assert.Equal(t, "/api/v3/secrets/raw/"+tt.key, last.Path)
			assert.Equal(t, "shared", last.Query.Get("type"))
			assert.Equal(t, "true", last.Query.Get("include_imports"))
			if tt.version > 0 {
				assert.Equal(t, "3", last.Query.Get("version"))
			} else {
				assert.False(t, last.Query.Has("version"))
			}
		})
	}
}

func TestCreateSecret(t *testing.T) {
	t.Parallel()

	srv := fakes.NewFakeInfisicalServer()
	defer srv.Close()
	client := newTestClient(t, srv)

	opts, err := infisical.NewCreateSecretOptionsBuilder().
		WithProjectID("p").
		WithEnvironment("dev").
		WithSecretKey("API_KEY").
		WithSecretValue("abc").
		Build()
	require.NoError(t, err)

	created, err := client.Secrets().CreateSecret(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, "API_KEY", created.SecretKey)
	assert.Equal(t, "abc", created.SecretValue)

	last, _ := srv.LastRequest()
	assert.Equal(t, http.MethodPost, last.Method)
	assert.Equal(t, "/api/v3/secrets/raw/API_KEY", last.Path)
	assert.Equal(t, map[string]interface{}{
		"environment": "dev",
		"workspaceId": "p",
		"secretPath":  "/",
		"secretValue": "abc",
	}, last.Body)
	assert.NotContains(t, last.Body, "secretComment")
	assert.NotContains(t, last.Body, "secretReminderRepeatDays")
	assert.NotContains(t, last.Body, "tagIds")

	stored, ok := srv.Lookup("dev", "/", "API_KEY")
	require.True(t, ok)
	assert.Equal(t, "abc", stored.SecretValue)

	_, err = client.Secrets().CreateSecret(context.Background(), opts)
	var apiErr *infisical.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}

func TestCreateSecretWithAllFields(t *testing.T) {
	t.Parallel()

	srv := fakes.NewFakeInfisicalServer()
	defer srv.Close()
	client := newTestClient(t, srv)

	opts, err := infisical.NewCreateSecretOptionsBuilder().
		WithProjectID("p").
		WithEnvironment("dev").
		WithSecretKey("K").
		WithSecretPath("/app").
		WithSecretValue("v").
		WithSecretComment("c").
		WithTagIDs([]string{"t1"}).
		WithSecretReminderNote("rotate").
		WithSecretReminderRepeatDays(30).
		Build()
	require.NoError(t, err)

	_, err = client.Secrets().CreateSecret(context.Background(), opts)
	require.NoError(t, err)

	last, _ := srv.LastRequest()
	assert.Equal(t, map[string]interface{}{
		"environment":              "dev",
		"workspaceId":              "p",
		"secretPath":               "/app",
		"secretValue":              "v",
		"secretComment":            "c",
		"tagIds":                   []interface{}{"t1"},
		"secretReminderNote":       "rotate",
		"secretReminderRepeatDays": float64(30),
	}, last.Body)
}

func TestUpdateSecret(t *testing.T) {
	t.Parallel()

	srv := fakes.NewFakeInfisicalServer()
	defer srv.Close()
	srv.SetSecret("dev", "/", "OLD", "value")
	client := newTestClient(t, srv)

	opts, err := infisical.NewUpdateSecretOptionsBuilder().
		WithProjectID("p").
		WithEnvironment("dev").
		WithSecretKey("OLD").
		WithNewSecretKey("NEW").
		WithSecretReminderRepeatDays(0).
		Build()
	require.NoError(t, err)

	updated, err := client.Secrets().UpdateSecret(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, "NEW", updated.SecretKey)
	assert.Equal(t, "value", updated.SecretValue)

	last, _ := srv.LastRequest()
	assert.Equal(t, http.MethodPatch, last.Method)
	assert.Equal(t, "/api/v3/secrets/raw/OLD", last.Path)
	assert.Equal(t, map[string]interface{}{
		"environment":   "dev",
		"workspaceId":   "p",
		"newSecretName": "NEW",
		"secretPath":    "/",
		"type":          "shared",
	}, last.Body)
	assert.NotContains(t, last.Body, "secretReminderRepeatDays")
}

func TestUpdateSecretValueAndReminder(t *testing.T) {
	t.Parallel()

	srv := fakes.NewFakeInfisicalServer()
	defer srv.Close()
	srv.SetSecret("dev", "/", "K", "old")
	client := newTestClient(t, srv)

	opts, err := infisical.NewUpdateSecretOptionsBuilder().
		WithProjectID("p").
		WithEnvironment("dev").
		WithSecretKey("K").
		WithSecretValue("new").
		WithSecretReminderRepeatDays(14).
		Build()
	require.NoError(t, err)

	updated, err := client.Secrets().UpdateSecret(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, "new", updated.SecretValue)
	assert.Equal(t, uint(2), updated.Version)

	last, _ := srv.LastRequest()
	assert.Equal(t, float64(14), last.Body["secretReminderRepeatDays"])
}

func TestDeleteSecret(t *testing.T) {
	t.Parallel()

	srv := fakes.NewFakeInfisicalServer()
	defer srv.Close()
	srv.SetSecret("dev", "/", "GONE", "bye")
	client := newTestClient(t, srv)

	opts, err := infisical.NewDeleteSecretOptionsBuilder().WithProjectID("p").WithEnvironment("dev").WithSecretKey("GONE").Build()
	require.NoError(t, err)

	deleted, err := client.Secrets().DeleteSecret(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, "GONE", deleted.SecretKey)
	assert.Equal(t, "bye", deleted.SecretValue)

	last, _ := srv.LastRequest()
	assert.Equal(t, http.MethodDelete, last.Method)
	assert.Equal(t, map[string]interface{}{
		"environment": "dev",
		"workspaceId": "p",
		"secretPath":  "/",
		"type":        "shared",
	}, last.Body)

	_, ok := srv.Lookup("dev", "/", "GONE")
	assert.False(t, ok)

	_, err = client.Secrets().DeleteSecret(context.Background(), opts)
	assert.True(t, infisical.IsNotFound(err))
}

func TestSecretsRejectUnbuiltOptions(t *testing.T) {
	t.Parallel()

	srv := fakes.NewFakeInfisicalServer()
	defer srv.Close()
	client := newTestClient(t, srv)
	before := len(srv.Requests())

	_, err := client.Secrets().ListSecrets(context.Background(), infisical.ListSecretsOptions{})
	assert.ErrorIs(t, err, infisical.ErrInvalidOptions)
	_, err = client.Secrets().GetSecret(context.Background(), infisical.GetSecretOptions{})
	assert.ErrorIs(t, err, infisical.ErrInvalidOptions)
	_, err = client.Secrets().DeleteSecret(context.Background(), infisical.DeleteSecretOptions{})
	assert.ErrorIs(t, err, infisical.ErrInvalidOptions)

	assert.Len(t, srv.Requests(), before)
}

func TestSecretsAPIErrorPassthrough(t *testing.T) {
	t.Parallel()

	srv := fakes.NewFakeInfisicalServer()
	defer srv.Close()
	client := newTestClient(t, srv)
	srv.RespondWith(http.MethodGet, "/api/v3/secrets/raw", http.StatusTooManyRequests, `{"message":["slow","down"],"reqId":"rl-1"}`)

	opts, err := infisical.NewListSecretsOptionsBuilder().WithProjectID("p").WithEnvironment("dev").Build()
	require.NoError(t, err)

	_, err = client.Secrets().ListSecrets(context.Background(), opts)
	var apiErr *infisical.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Equal(t, `["slow","down"]`, apiErr.Message)
	assert.Equal(t, "rl-1", apiErr.RequestID)
}

func TestSecretsUndecodableBody(t *testing.T) {
	t.Parallel()

	srv := fakes.NewFakeInfisicalServer()
	defer srv.Close()
	client := newTestClient(t, srv)
	srv.RespondWith(http.MethodGet, "/api/v3/secrets/raw/K", http.StatusOK, `not json`)

	opts, err := infisical.NewGetSecretOptionsBuilder().WithProjectID("p").WithEnvironment("dev").WithSecretKey("K").Build()
	require.NoError(t, err)

	_, err = client.Secrets().GetSecret(context.Background(), opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response body")
}
