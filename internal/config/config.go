package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is built once at process start and passed into constructors.
// Business logic never reads the environment directly.
type Config struct {
	ProductsTable      string `envconfig:"products_table" default:"mfc-products"`
	WarehousesTable    string `envconfig:"warehouses_table" default:"mfc-warehouses"`
	TerritoriesTable   string `envconfig:"territories_table" default:"mfc-territories"`
	SpecialistsTable   string `envconfig:"specialists_table" default:"mfc-specialists"`
	LeadsTable         string `envconfig:"leads_table" default:"mfc-leads"`
	KnowledgeTable     string `envconfig:"knowledge_table" default:"mfc-knowledge"`
	ConversationsTable string `envconfig:"conversations_table" default:"mfc-conversations"`

	// SSM prefix under which the SendGrid and ElevenLabs keys live.
	ParamPrefix string `envconfig:"param_prefix" default:"/mfc-voice-agent"`

	SenderEmail      string   `envconfig:"sender_email" default:"leads@montanafeedcompany.com"`
	FallbackEmail    string   `envconfig:"fallback_manager_email"`
	CallbackNumber   string   `envconfig:"callback_number" default:"406-555-0145"`
	ElevenLabsVoice  string   `envconfig:"elevenlabs_voice_id"`
	AllowedOrigins   []string `envconfig:"allowed_origins" default:"*"`
	MaxResults       int      `envconfig:"max_results" default:"5"`
	LeadScoreCutoff  int      `envconfig:"lead_score_cutoff" default:"40"`
	RateLimitWindow  int      `envconfig:"rate_limit_window_seconds" default:"60"`
	RateLimitCeiling int      `envconfig:"rate_limit_ceiling" default:"30"`
	ListenAddr       string   `envconfig:"listen_addr" default:":8080"`
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var c Config
	if err := envconfig.Process("mfc", &c); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &c, nil
}
