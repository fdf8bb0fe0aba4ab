package entity

import (
	"fmt"
	"strings"

	"github.com/lite-lake/infra-siteops/internal/domain"
	"github.com/lite-lake/infra-siteops/internal/domain/valueobject"
)

type SourceProvider string

const (
	SourceProviderGitHub SourceProvider = "github"
	SourceProviderGit    SourceProvider = "git"
)

// RequiresAuth reports whether checkout from this provider needs a token.
func (p SourceProvider) RequiresAuth() bool {
	return p == SourceProviderGitHub || p == ""
}

// Source is where the pipeline checks out the repository that defines both
// the pipeline itself and the site.
type Source struct {
	Provider SourceProvider         `yaml:"provider,omitempty"`
	Repo     string                 `yaml:"repo"`
	Branch   string                 `yaml:"branch"`
	Auth     *valueobject.SecretRef `yaml:"auth,omitempty"`
}

func (s *Source) EffectiveProvider() SourceProvider {
	if s.Provider == "" {
		return SourceProviderGitHub
	}
	return s.Provider
}

// Validate checks the shape of the source. A missing auth reference on a
// provider that needs one is a configuration error.
func (s *Source) Validate() error {
	switch s.EffectiveProvider() {
	case SourceProviderGitHub:
		owner, name, ok := strings.Cut(s.Repo, "/")
		if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
			return fmt.Errorf("%w: github repo must be <owner>/<name>, got %q", domain.ErrInvalidName, s.Repo)
		}
	case SourceProviderGit:
		if s.Repo == "" {
			return domain.RequiredField("repo")
		}
	default:
		return fmt.Errorf("%w: source provider %q", domain.ErrUnsupportedValue, s.Provider)
	}
	if s.Branch == "" {
		return domain.RequiredField("branch")
	}
	if s.Auth == nil {
		if s.EffectiveProvider().RequiresAuth() {
			return domain.Configuration("source.auth", fmt.Sprintf("%s source requires an authentication secret", s.EffectiveProvider()))
		}
		return nil
	}
	if err := s.Auth.Validate(); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	return nil
}
