// Package gcp loads the Google service account shared by the calendar and
// inventory collaborators.
package gcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
)

// ErrNoCredentials means neither the JSON key nor the individual fields were set.
var ErrNoCredentials = errors.New("gcp: no google service account credentials configured")

// Source is where credentials may come from, typically environment variables.
type Source struct {
	// ServiceAccountJSON is the full key file content.
	ServiceAccountJSON string
	ClientEmail        string
	PrivateKey         string
	ProjectID          string
}

// ServiceAccount is the subset of a key file needed to mint tokens.
type ServiceAccount struct {
	Type        string `json:"type"`
	ProjectID   string `json:"project_id"`
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
	TokenURI    string `json:"token_uri"`
}

// LoadServiceAccount parses the JSON key when present, otherwise assembles
// the account from the individual fields. Escaped "\n" sequences in the
// private key are turned into real newlines, as env files usually carry them.
func LoadServiceAccount(src Source) (*ServiceAccount, error) {
	var sa ServiceAccount
	switch {
	case strings.TrimSpace(src.ServiceAccountJSON) != "":
		if err := json.Unmarshal([]byte(src.ServiceAccountJSON), &sa); err != nil {
			return nil, fmt.Errorf("gcp: failed to parse service account key: %w", err)
		}
	case strings.TrimSpace(src.ClientEmail) != "" && strings.TrimSpace(src.PrivateKey) != "":
		sa = ServiceAccount{
			Type:        "service_account",
			ProjectID:   src.ProjectID,
			ClientEmail: strings.TrimSpace(src.ClientEmail),
			PrivateKey:  src.PrivateKey,
		}
	default:
		return nil, ErrNoCredentials
	}

	sa.PrivateKey = strings.ReplaceAll(sa.PrivateKey, `\n`, "\n")
	if sa.TokenURI == "" {
		sa.TokenURI = google.JWTTokenURL
	}
	if sa.ClientEmail == "" {
		return nil, errors.New("gcp: service account has no client_email")
	}
	if !strings.Contains(sa.PrivateKey, "PRIVATE KEY") {
		return nil, errors.New("gcp: service account private key is not PEM encoded")
	}
	return &sa, nil
}

// JWTConfig returns the two-legged OAuth config for the given scopes.
func (sa *ServiceAccount) JWTConfig(scopes ...string) *jwt.Config {
	return &jwt.Config{
		Email:      sa.ClientEmail,
		PrivateKey: []byte(sa.PrivateKey),
		TokenURL:   sa.TokenURI,
		Scopes:     scopes,
	}
}

// ClientOption authenticates Google API clients as this service account.
func (sa *ServiceAccount) ClientOption(ctx context.Context, scopes ...string) option.ClientOption {
	return option.WithTokenSource(sa.JWTConfig(scopes...).TokenSource(ctx))
}
