// Package config loads the settings record threaded through every
// evaluation (spec.md §6 "Configuration (recognized options)"): TLS
// client-certificate material, the OpenAI credentials consumed by the
// SPARQLString operator, and an optional OAuth2 bearer-token credential
// for endpoints that prefer it over mTLS.
package config

import (
	"os"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/web-algebra/webalgebra/walerr"
)

// Settings is the immutable configuration record (spec.md §4.2: "settings
// (immutable config)"). It is never mutated after Load returns.
type Settings struct {
	// CertPEMPath is the path to a PEM bundle containing a client
	// certificate and (possibly encrypted) private key, for mTLS.
	CertPEMPath string
	// CertPassword decrypts CertPEMPath's private key, if encrypted.
	CertPassword string
	// InsecureSkipVerify disables server certificate verification, for
	// development endpoints (spec.md §6 TLS).
	InsecureSkipVerify bool

	// OAuth2 is an optional client-credentials bearer-token source,
	// an enrichment beyond the distilled spec (SPEC_FULL.md §A.3).
	OAuth2 *clientcredentials.Config

	// OpenAIAPIKey and OpenAIModel configure the SPARQLString operator
	// (spec.md §6 Configuration).
	OpenAIAPIKey string
	OpenAIModel  string

	// HTTPTimeout bounds individual HTTP requests issued by the Linked
	// Data and SPARQL clients (spec.md §5: "Timeouts are per-request on
	// the HTTP layer... source used 10s for SPARQL GETs").
	HTTPTimeout time.Duration
}

// DefaultHTTPTimeout matches the teacher's convention of sourcing a
// sensible per-request timeout rather than blocking forever.
const DefaultHTTPTimeout = 10 * time.Second

// Load reads Settings from environment variables. It returns a
// ConfigError if CertPassword is set without CertPEMPath, since a lone
// password has no key to decrypt. A CertPEMPath without CertPassword is
// accepted (an unencrypted key needs no password).
func Load() (*Settings, error) {
	s := &Settings{
		CertPEMPath:        os.Getenv("WEBALGEBRA_CERT_PEM_PATH"),
		CertPassword:       os.Getenv("WEBALGEBRA_CERT_PASSWORD"),
		InsecureSkipVerify: os.Getenv("WEBALGEBRA_INSECURE_SKIP_VERIFY") == "true",
		OpenAIAPIKey:       os.Getenv("WEBALGEBRA_OPENAI_API_KEY"),
		OpenAIModel:        os.Getenv("WEBALGEBRA_OPENAI_MODEL"),
		HTTPTimeout:        DefaultHTTPTimeout,
	}
	if s.OpenAIModel == "" {
		s.OpenAIModel = "gpt-4o-mini"
	}

	if clientID := os.Getenv("WEBALGEBRA_OAUTH2_CLIENT_ID"); clientID != "" {
		s.OAuth2 = &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: os.Getenv("WEBALGEBRA_OAUTH2_CLIENT_SECRET"),
			TokenURL:     os.Getenv("WEBALGEBRA_OAUTH2_TOKEN_URL"),
		}
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks internal consistency of an already-populated Settings
// (used both by Load and by callers that construct Settings directly).
func (s *Settings) Validate() error {
	if s.CertPassword != "" && s.CertPEMPath == "" {
		return walerr.Config("config.Load", errMissingCertPath)
	}
	return nil
}

var errMissingCertPath = certPathRequiredError{}

type certPathRequiredError struct{}

func (certPathRequiredError) Error() string {
	return "cert_password set without cert_pem_path"
}
