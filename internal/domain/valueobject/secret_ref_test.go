package valueobject

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/lite-lake/infra-siteops/internal/domain"
)

const testSecretARN = "arn:aws:secretsmanager:us-east-1:123456789012:secret:github-token-AbCdEf"

func TestSecretRef_LogValue(t *testing.T) {
	tests := []struct {
		name string
		ref  *SecretRef
	}{
		{"plain value", NewSecretRefPlain("my-password")},
		{"secret reference", NewSecretRefSecret("secret-name")},
		{"both values", NewSecretRef("plain-value-123", "secret-ref-456")},
		{"empty", &SecretRef{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))

			logger.Info("test", "secret", tt.ref)

			output := buf.String()

			if tt.ref.Plain != "" && strings.Contains(output, tt.ref.Plain) {
				t.Errorf("LogValue leaked plain value %q in output: %s", tt.ref.Plain, output)
			}
			if tt.ref.Secret != "" && strings.Contains(output, tt.ref.Secret) {
				t.Errorf("LogValue leaked secret reference %q in output: %s", tt.ref.Secret, output)
			}
			if !strings.Contains(output, "***") {
				t.Errorf("LogValue did not mask secret, output: %s", output)
			}
		})
	}
}

func TestSecretRef_UnmarshalYAML(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantPlain  string
		wantSecret string
		wantField  string
	}{
		{"plain scalar", `ref: hunter2`, "hunter2", "", ""},
		{"arn scalar", `ref: ` + testSecretARN, "", testSecretARN, ""},
		{"mapping", "ref:\n  secret: " + testSecretARN + "\n  field: token\n", "", testSecretARN, "token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var doc struct {
				Ref SecretRef `yaml:"ref"`
			}
			if err := yaml.Unmarshal([]byte(tt.input), &doc); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if doc.Ref.Plain != tt.wantPlain || doc.Ref.Secret != tt.wantSecret || doc.Ref.Field != tt.wantField {
				t.Errorf("got %+v", doc.Ref)
			}
		})
	}
}

func TestSecretRef_Validate(t *testing.T) {
	tests := []struct {
		name    string
		ref     SecretRef
		wantErr error
	}{
		{"empty", SecretRef{}, domain.ErrEmptyValue},
		{"plain", SecretRef{Plain: "x"}, nil},
		{"valid arn", SecretRef{Secret: testSecretARN}, nil},
		{"not an arn", SecretRef{Secret: "github-token"}, domain.ErrInvalidARN},
		{"wrong service", SecretRef{Secret: "arn:aws:acm:us-east-1:123456789012:certificate/abc"}, domain.ErrInvalidARN},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ref.Validate()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Errorf("Validate() unexpected error = %v", err)
			}
		})
	}
}

func TestSecretRef_DynamicReference(t *testing.T) {
	ref := &SecretRef{Secret: testSecretARN}
	want := "{{resolve:secretsmanager:" + testSecretARN + ":SecretString:token::}}"
	if got := ref.DynamicReference("token"); got != want {
		t.Errorf("DynamicReference() = %q, want %q", got, want)
	}

	ref.Field = "password"
	if got := ref.DynamicReference("token"); !strings.HasSuffix(got, ":SecretString:password::}}") {
		t.Errorf("DynamicReference() ignored field: %q", got)
	}

	if got := NewSecretRefPlain("abc").DynamicReference("token"); got != "abc" {
		t.Errorf("DynamicReference() for plain = %q", got)
	}
}

func TestSecretRef_Resolve(t *testing.T) {
	ref := &SecretRef{Secret: testSecretARN}
	if _, err := ref.Resolve(nil, "token"); !errors.Is(err, domain.ErrMissingSecret) {
		t.Errorf("expected ErrMissingSecret, got %v", err)
	}

	table := map[string]map[string]string{testSecretARN: {"token": "v", "password": "p"}}
	val, err := ref.Resolve(table, "token")
	if err != nil || val != "v" {
		t.Errorf("Resolve() = %q, %v", val, err)
	}

	ref.Field = "password"
	if val, _ := ref.Resolve(table, "token"); val != "p" {
		t.Errorf("Resolve() ignored field, got %q", val)
	}

	ref.Field = "missing"
	if _, err := ref.Resolve(table, "token"); !errors.Is(err, domain.ErrMissingSecret) {
		t.Errorf("expected ErrMissingSecret for unknown field, got %v", err)
	}

	if val, _ := NewSecretRefPlain("abc").Resolve(nil, "token"); val != "abc" {
		t.Errorf("plain Resolve() = %q", val)
	}
}
