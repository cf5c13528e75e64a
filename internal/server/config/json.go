package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/secretkeeper/internal/flagx"
	"github.com/dmitrijs2005/secretkeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations use
// timex.Duration so both "24h" and integer nanoseconds are accepted. Keys
// missing from the file keep the value already in Config.
type JsonConfig struct {
	EndpointAddrHTTP      *string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC      *string         `json:"endpoint_addr_grpc"`
	DatabaseDSN           *string         `json:"database_dsn"`
	SecretKey             *string         `json:"secret_key"`
	TokenValidityDuration *timex.Duration `json:"token_validity_duration"`
	PasswordHashCost      *int            `json:"password_hash_cost"`
	StoreTimeout          *timex.Duration `json:"store_timeout"`
	UpstreamTimeout       *timex.Duration `json:"upstream_timeout"`
	OAuthStateTTL         *timex.Duration `json:"oauth_state_ttl"`
	FrontendURL           *string         `json:"frontend_url"`
	GoogleClientID        *string         `json:"google_client_id"`
	GoogleClientSecret    *string         `json:"google_client_secret"`
	GoogleCallbackURL     *string         `json:"google_callback_url"`
	GoogleAuthURL         *string         `json:"google_auth_url"`
	GoogleTokenURL        *string         `json:"google_token_url"`
	GoogleUserInfoURL     *string         `json:"google_userinfo_url"`
	S3RootUser            *string         `json:"s3_root_user"`
	S3RootPassword        *string         `json:"s3_root_password"`
	S3Bucket              *string         `json:"s3_bucket"`
	S3Region              *string         `json:"s3_region"`
	S3BaseEndpoint        *string         `json:"s3_base_endpoint"`
	ExportURLValidity     *timex.Duration `json:"export_url_validity"`
	LogFormat             *string         `json:"log_format"`
}

// parseJson loads the file named by -c/-config, if any, into config.
// An unreadable file or invalid JSON panics.
func parseJson(config *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setDuration(&config.TokenValidityDuration, c.TokenValidityDuration)
	if c.PasswordHashCost != nil {
		config.PasswordHashCost = *c.PasswordHashCost
	}
	setDuration(&config.StoreTimeout, c.StoreTimeout)
	setDuration(&config.UpstreamTimeout, c.UpstreamTimeout)
	setDuration(&config.OAuthStateTTL, c.OAuthStateTTL)
	setString(&config.FrontendURL, c.FrontendURL)
	setString(&config.GoogleClientID, c.GoogleClientID)
	setString(&config.GoogleClientSecret, c.GoogleClientSecret)
	setString(&config.GoogleCallbackURL, c.GoogleCallbackURL)
	setString(&config.GoogleAuthURL, c.GoogleAuthURL)
	setString(&config.GoogleTokenURL, c.GoogleTokenURL)
	setString(&config.GoogleUserInfoURL, c.GoogleUserInfoURL)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setDuration(&config.ExportURLValidity, c.ExportURLValidity)
	setString(&config.LogFormat, c.LogFormat)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *timex.Duration) {
	if v != nil {
		*dst = v.Duration
	}
}
