package infisical

// Secret types understood by the API.
const (
	SecretTypeShared   = "shared"
	SecretTypePersonal = "personal"
)

// DefaultSecretPath is the root folder of an environment.
const DefaultSecretPath = "/"

// SecretMetadata is a single key/value pair attached to a secret.
type SecretMetadata struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Secret is a raw secret as returned by the API.
//
// SecretPath is authoritative for secrets owned by the listed folder. For
// secrets arriving through an import it is replaced with the import's path.
type Secret struct {
	ID                    string           `json:"id"`
	Workspace             string           `json:"workspace"`
	Environment           string           `json:"environment"`
	Version               uint             `json:"version"`
	Type                  string           `json:"type"`
	SecretKey             string           `json:"secretKey"`
	SecretValue           string           `json:"secretValue"`
	SecretPath            string           `json:"secretPath,omitempty"`
	SkipMultilineEncoding bool             `json:"skipMultilineEncoding"`
	IsRotatedSecret       bool             `json:"isRotatedSecret"`
	RotationID            *string          `json:"rotationId,omitempty"`
	SecretMetadata        []SecretMetadata `json:"secretMetadata,omitempty"`
}

// GetRotationID returns the rotation ID, or "" when the secret is not rotated.
func (s Secret) GetRotationID() string {
	if s.RotationID == nil {
		return ""
	}
	return *s.RotationID
}

// Import is a folder whose secrets are pulled into a listing.
type Import struct {
	SecretPath  string   `json:"secretPath"`
	Environment string   `json:"environment"`
	FolderID    string   `json:"folderId"`
	Secrets     []Secret `json:"secrets"`
}

// MachineIdentityLoginResponse is the result of a Universal Auth login.
type MachineIdentityLoginResponse struct {
	AccessToken       string `json:"accessToken"`
	ExpiresIn         int    `json:"expiresIn"`
	AccessTokenMaxTTL int    `json:"accessTokenMaxTTL"`
	TokenType         string `json:"tokenType"`
}

type listSecretsResponse struct {
	Secrets []Secret `json:"secrets"`
	Imports []Import `json:"imports"`
}

type secretResponse struct {
	Secret Secret `json:"secret"`
}
