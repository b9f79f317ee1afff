package infisical

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsBuildersRequireScope(t *testing.T) {
	t.Parallel()

	type builder func(projectID, environment string) error

	builders := map[string]builder{
		"list": func(p, e string) error {
			_, err := NewListSecretsOptionsBuilder().WithProjectID(p).WithEnvironment(e).Build()
			return err
		},
		"get": func(p, e string) error {
			_, err := NewGetSecretOptionsBuilder().WithProjectID(p).WithEnvironment(e).WithSecretKey("K").Build()
			return err
		},
		"create": func(p, e string) error {
			_, err := NewCreateSecretOptionsBuilder().WithProjectID(p).WithEnvironment(e).WithSecretKey("K").Build()
			return err
		},
		"update": func(p, e string) error {
			_, err := NewUpdateSecretOptionsBuilder().WithProjectID(p).WithEnvironment(e).WithSecretKey("K").Build()
			return err
		},
		"delete": func(p, e string) error {
			_, err := NewDeleteSecretOptionsBuilder().WithProjectID(p).WithEnvironment(e).WithSecretKey("K").Build()
			return err
		},
	}

	scopes := []struct {
		name        string
		projectID   string
		environment string
		wantField   string
	}{
		{name: "missing_project", environment: "dev", wantField: "projectId"},
		{name: "missing_environment", projectID: "p1", wantField: "environment"},
		{name: "missing_both", wantField: "projectId"},
	}

	for opName, build := range builders {
		for _, sc := range scopes {
			opName, build, sc := opName, build, sc
			t.Run(opName+"/"+sc.name, func(t *testing.T) {
				t.Parallel()

				err := build(sc.projectID, sc.environment)
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidOptions))

				var optErr *OptionsError
				require.ErrorAs(t, err, &optErr)
				assert.Equal(t, sc.wantField, optErr.Field)
				assert.Contains(t, err.Error(), "Project ID and Environment cannot be empty")
			})
		}

		opName, build := opName, build
		t.Run(opName+"/valid", func(t *testing.T) {
			t.Parallel()
			assert.NoError(t, build("p1", "dev"))
		})
	}
}

func TestOptionsBuildersRequireSecretKey(t *testing.T) {
	t.Parallel()

	errs := map[string]error{}
	_, errs["get"] = NewGetSecretOptionsBuilder().WithProjectID("p").WithEnvironment("dev").Build()
	_, errs["create"] = NewCreateSecretOptionsBuilder().WithProjectID("p").WithEnvironment("dev").Build()
	_, errs["update"] = NewUpdateSecretOptionsBuilder().WithProjectID("p").WithEnvironment("dev").Build()
	_, errs["delete"] = NewDeleteSecretOptionsBuilder().WithProjectID("p").WithEnvironment("dev").Build()

	for name, err := range errs {
		require.Error(t, err, name)
		assert.ErrorIs(t, err, ErrInvalidOptions, name)
		assert.Contains(t, err.Error(), "Secret Key cannot be empty", name)
	}
}

func TestOptionsDefaults(t *testing.T) {
	t.Parallel()

	list, err := NewListSecretsOptionsBuilder().WithProjectID("p").WithEnvironment("dev").Build()
	require.NoError(t, err)
	assert.Equal(t, "/", list.SecretPath())
	assert.True(t, list.ExpandSecretReferences())
	assert.False(t, list.Recursive())
	assert.False(t, list.ExportToEnv())
	assert.Nil(t, list.TagSlugs())

	get, err := NewGetSecretOptionsBuilder().WithProjectID("p").WithEnvironment("dev").WithSecretKey("K").Build()
	require.NoError(t, err)
	assert.Equal(t, "/", get.SecretPath())
	assert.Equal(t, SecretTypeShared, get.Type())
	assert.Equal(t, uint(0), get.Version())
	assert.True(t, get.ExpandSecretReferences())

	create, err := NewCreateSecretOptionsBuilder().WithProjectID("p").WithEnvironment("dev").WithSecretKey("K").Build()
	require.NoError(t, err)
	assert.Equal(t, "/", create.SecretPath())

	update, err := NewUpdateSecretOptionsBuilder().WithProjectID("p").WithEnvironment("dev").WithSecretKey("K").Build()
	require.NoError(t, err)
	assert.Equal(t, "/", update.SecretPath())
	assert.Equal(t, SecretTypeShared, update.Type())

	del, err := NewDeleteSecretOptionsBuilder().WithProjectID("p").WithEnvironment("dev").WithSecretKey("K").Build()
	require.NoError(t, err)
	assert.Equal(t, "/", del.SecretPath())
	assert.Equal(t, SecretTypeShared, del.Type())
}

func TestOptionsBuildIsIdempotent(t *testing.T) {
	t.Parallel()

	b := NewUpdateSecretOptionsBuilder().
		WithProjectID("p").
		WithEnvironment("dev").
		WithSecretKey("OLD").
		WithNewSecretKey("NEW").
		WithTagIDs([]string{"t1", "t2"}).
		WithSecretReminderRepeatDays(7)

	first, err := b.Build()
	require.NoError(t, err)
	second, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "NEW", first.NewSecretKey())
	assert.Equal(t, uint(7), first.SecretReminderRepeatDays())
}

func TestOptionsAreIndependentOfBuilder(t *testing.T) {
	t.Parallel()

	tags := []string{"a", "b"}
	b := NewListSecretsOptionsBuilder().WithProjectID("p").WithEnvironment("dev").WithTagSlugs(tags)

	opts, err := b.Build()
	require.NoError(t, err)

	tags[0] = "mutated"
	b.WithTagSlugs([]string{"other"}).WithEnvironment("prod")

	assert.Equal(t, []string{"a", "b"}, opts.TagSlugs())
	assert.Equal(t, "dev", opts.Environment())

	got := opts.TagSlugs()
	got[0] = "changed"
	assert.Equal(t, []string{"a", "b"}, opts.TagSlugs())
}
