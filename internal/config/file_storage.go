package config

const (
	StorageProviderLocal  = "local"
	StorageProviderAWS    = "s3"
	StorageProviderGCP    = "gcs"
	StorageProviderInline = "inline"
)

type StorageConfig struct {
	Provider      string              `yaml:"provider"`
	MaxImageWidth int                 `yaml:"max_image_width"`
	Local         *LocalStorageConfig `yaml:"local"`
	AWS           *AWSStorageConfig   `yaml:"aws"`
	GCP           *GCPStorageConfig   `yaml:"gcp"`
}

type LocalStorageConfig struct {
	BasePath string `yaml:"base_path"`
	BaseURL  string `yaml:"base_url"`
}

type AWSStorageConfig struct {
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	CDNDomain string `yaml:"cdn_domain"`
}

type GCPStorageConfig struct {
	ProjectID       string `yaml:"project_id"`
	Bucket          string `yaml:"bucket"`
	CredentialsFile string `yaml:"credentials_file"`
	CDNDomain       string `yaml:"cdn_domain"`
}

func loadStorageConfig() *StorageConfig {
	return &StorageConfig{
		Provider:      getEnv("STORAGE_PROVIDER", StorageProviderLocal),
		MaxImageWidth: getEnvAsInt("STORAGE_MAX_IMAGE_WIDTH", 1920),
		Local: &LocalStorageConfig{
			BasePath: getEnv("STORAGE_LOCAL_PATH", "./uploads"),
			BaseURL:  getEnv("STORAGE_LOCAL_URL", "http://localhost:8080/uploads"),
		},
		AWS: &AWSStorageConfig{
			Region:    getEnv("AWS_S3_REGION", "ap-south-1"),
			Bucket:    getEnv("AWS_S3_BUCKET", ""),
			CDNDomain: getEnv("AWS_CLOUDFRONT_DOMAIN", ""),
		},
		GCP: &GCPStorageConfig{
			ProjectID:       getEnv("GCP_PROJECT_ID", ""),
			Bucket:          getEnv("GCP_STORAGE_BUCKET", ""),
			CredentialsFile: getEnv("GCP_CREDENTIALS_FILE", ""),
			CDNDomain:       getEnv("GCP_CDN_DOMAIN", ""),
		},
	}
}

// BlobConfigured reports whether the selected provider has the settings it
// needs. When it does not, uploads are stored inline as data URIs.
func (s *StorageConfig) BlobConfigured() bool {
	switch s.Provider {
	case StorageProviderLocal:
		return s.Local != nil && s.Local.BasePath != ""
	case StorageProviderAWS:
		return s.AWS != nil && s.AWS.Bucket != ""
	case StorageProviderGCP:
		return s.GCP != nil && s.GCP.Bucket != ""
	default:
		return false
	}
}
