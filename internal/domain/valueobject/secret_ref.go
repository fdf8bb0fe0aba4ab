package valueobject

import (
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws/arn"

	"github.com/lite-lake/infra-siteops/internal/domain"
)

const secretsManagerService = "secretsmanager"

// SecretRef points at a secret value without carrying it. Secret is the
// complete ARN of a Secrets Manager secret and Field selects a JSON key
// inside its SecretString. Plain is accepted for local runs only.
type SecretRef struct {
	Plain  string `yaml:"plain,omitempty"`
	Secret string `yaml:"secret,omitempty"`
	Field  string `yaml:"field,omitempty"`
}

func NewSecretRefPlain(plain string) *SecretRef {
	return &SecretRef{Plain: plain}
}

func NewSecretRefSecret(secret string) *SecretRef {
	return &SecretRef{Secret: secret}
}

func NewSecretRef(plain, secret string) *SecretRef {
	return &SecretRef{Plain: plain, Secret: secret}
}

func (s *SecretRef) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var plain string
	if err := unmarshal(&plain); err == nil {
		if arn.IsARN(plain) {
			s.Secret = plain
		} else {
			s.Plain = plain
		}
		return nil
	}

	type alias SecretRef
	var ref alias
	if err := unmarshal(&ref); err != nil {
		return err
	}
	s.Plain = ref.Plain
	s.Secret = ref.Secret
	s.Field = ref.Field
	return nil
}

func (s *SecretRef) MarshalYAML() (interface{}, error) {
	if s.Secret != "" {
		m := map[string]string{"secret": s.Secret}
		if s.Field != "" {
			m["field"] = s.Field
		}
		return m, nil
	}
	return s.Plain, nil
}

// LogValue keeps secret material and ARNs out of structured logs.
func (s *SecretRef) LogValue() slog.Value {
	return slog.StringValue("***")
}

func (s *SecretRef) IsSecret() bool {
	return s.Secret != ""
}

// FieldOr returns the JSON key to read, falling back to def.
func (s *SecretRef) FieldOr(def string) string {
	if s.Field != "" {
		return s.Field
	}
	return def
}

// DynamicReference renders the reference the way the provisioning engine
// resolves it at deploy time. The value itself never passes through here.
func (s *SecretRef) DynamicReference(defaultField string) string {
	if s.Secret == "" {
		return s.Plain
	}
	return fmt.Sprintf("{{resolve:%s:%s:SecretString:%s::}}", secretsManagerService, s.Secret, s.FieldOr(defaultField))
}

// Resolve looks the reference up in a table of secret ARN to SecretString
// fields. Plain references resolve to themselves.
func (s *SecretRef) Resolve(secrets map[string]map[string]string, defaultField string) (string, error) {
	if s.Secret == "" {
		return s.Plain, nil
	}
	fields, ok := secrets[s.Secret]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrMissingSecret, s.Secret)
	}
	field := s.FieldOr(defaultField)
	val, ok := fields[field]
	if !ok {
		return "", fmt.Errorf("%w: %s has no field %q", domain.ErrMissingSecret, s.Secret, field)
	}
	return val, nil
}

func (s *SecretRef) Validate() error {
	if s.Plain == "" && s.Secret == "" {
		return domain.ErrEmptyValue
	}
	if s.Secret == "" {
		return nil
	}
	parsed, err := arn.Parse(s.Secret)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidARN, err)
	}
	if parsed.Service != secretsManagerService {
		return fmt.Errorf("%w: expected %s ARN, got service %q", domain.ErrInvalidARN, secretsManagerService, parsed.Service)
	}
	return nil
}
