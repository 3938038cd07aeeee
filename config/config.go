package config

import (
	"fmt"
	"strings"
	"time"
)

type Configs struct {
	Env      string
	LogLevel string

	Database  DatabaseConfigs
	ApiServer APIServerConfigs
	Auth      AuthConfigs
	Session   SessionConfigs
	Rotation  RotationConfigs
	Bible     BibleConfigs
	Book      BookConfigs
	LLM       LLMConfigs
	RoleCodes RoleCodeConfigs
	Presence  PresenceConfigs
	Search    SearchConfigs
	Redis     RedisConfigs
	Kafka     KafkaConfigs
}

type DatabaseConfigs struct {
	// URL is either a sqlite file path, a postgres:// URL or a mysql DSN.
	URL      string
	LogLevel string
}

type ServerConfigs struct {
	Host string
	Port string
}

func (c ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

type APIServerConfigs struct {
	ServerConfigs

	PublicURL      string
	AllowedOrigins []string
	StaticDir      string
}

type AuthConfigs struct {
	TokenSecret string
	AccessToken TokenConfigs

	Google OAuth2Configs
}

type TokenConfigs struct {
	Name       string
	Expiration time.Duration
}

type OAuth2Configs struct {
	Name         string
	Issuer       string
	ClientID     string
	ClientSecret string
}

type SessionConfigs struct {
	Secret string
	Name   string
}

type RotationConfigs struct {
	DefaultInterval int
	FetchTimeout    time.Duration
	CurrentCacheTTL time.Duration
	UserAgent       string
	NodeID          int64
}

type BibleConfigs struct {
	APIBase            string
	DefaultTranslation string
	Timeout            time.Duration
}

type BookConfigs struct {
	APIBase        string
	SearchTimeout  time.Duration
	ContentTimeout time.Duration
	MaxTextLength  int
}

type LLMConfigs struct {
	APIBase string
	APIKey  string
	Model   string
	Timeout time.Duration
}

func (c LLMConfigs) Enabled() bool {
	return c.APIKey != ""
}

type RoleCodeConfigs struct {
	Host    string
	Mod     string
	CoOwner string
	Owner   string
}

// Codes returns the redemption code of every redeemable role, keyed by role
// name. Codes are compared trimmed and upper-cased. An empty code disables
// its role.
func (c RoleCodeConfigs) Codes() map[string]string {
	return map[string]string{
		"host":     strings.ToUpper(strings.TrimSpace(c.Host)),
		"mod":      strings.ToUpper(strings.TrimSpace(c.Mod)),
		"co_owner": strings.ToUpper(strings.TrimSpace(c.CoOwner)),
		"owner":    strings.ToUpper(strings.TrimSpace(c.Owner)),
	}
}

type PresenceConfigs struct {
	OnlineWindow time.Duration
	Retention    time.Duration
}

type SearchConfigs struct {
	// IndexDir is empty when the index should live in memory only.
	IndexDir string
}

type RedisConfigs struct {
	Addr string
}

func (c RedisConfigs) Enabled() bool {
	return c.Addr != ""
}

type KafkaConfigs struct {
	Addrs    []string
	ClientID string
	Topic    string
}

func (c KafkaConfigs) Enabled() bool {
	return len(c.Addrs) > 0
}
