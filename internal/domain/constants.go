package domain

import "time"

const (
	DefaultProject        = "site"
	PipelineNameFormat    = "%s-Pipeline"
	StackNameFormat       = "%s-SiteStack"
	DefaultRegistry       = "index.docker.io"
	DefaultSecretField    = "token"
	DefaultRegistryUser   = "username"
	DefaultRegistrySecret = "secret"
	EnvSynthDocker        = "SITEOPS_SYNTH_DOCKER"
)

const (
	SiteAccessLogPrefix   = "site-s3/"
	CDNAccessLogPrefix    = "site-cdn/"
	DefaultRootObject     = "index.html"
	AssetSourceDir        = "site"
	AssetBundlingImage    = "node:14"
	AssetOutputDir        = "/asset-output"
	InvalidationPathAll   = "/*"
	ViewerProtocolHTTPS   = "redirect-to-https"
	DefaultCertificateRef = "default"
)

// AssetBundlingSteps are joined with "&&" and run inside AssetBundlingImage.
var AssetBundlingSteps = []string{
	"export npm_config_cache=$(mktemp -d)",
	"npm ci",
	"npm run build",
	"cp -r build/* " + AssetOutputDir,
}

const (
	ConfigFilePipeline     = "pipeline.yaml"
	ConfigFileEnvironments = "environments.yaml"
	ConfigFileSecrets      = "secrets.yaml"
	AssemblyManifestFile   = "manifest.yaml"
	GraphFileSuffix        = ".graph.yaml"
	DefaultAssemblyDir     = "siteops.out"
	FilePermissionOwnerRW  = 0o600
	DirPermission          = 0o755
)

const (
	DefaultRetryMaxAttempts    = 3
	DefaultRetryInitialDelayMs = 100
	DefaultRetryMaxDelaySec    = 30
	DefaultRetryMultiplier     = 2.0
)

var (
	DefaultRetryInitialDelay = DefaultRetryInitialDelayMs * time.Millisecond
	DefaultRetryMaxDelay     = DefaultRetryMaxDelaySec * time.Second
)
