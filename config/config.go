package config

import "time"

type Config struct {
	AppName                       string   `env:"APP_NAME" env-default:"clover-api"`
	Port                          int      `env:"PORT" env-default:"3004"`
	LogLevel                      string   `env:"LOG_LEVEL" env-default:"info"`
	PrettyLogs                    bool     `env:"PRETTY_LOGS" env-default:"false"`
	HttpServerWriteTimeoutSeconds int      `env:"HTTP_SERVER_WRITE_TIMEOUT_SECONDS" env-default:"10"`
	HttpServerReadTimeoutSeconds  int      `env:"HTTP_SERVER_READ_TIMEOUT_SECONDS" env-default:"10"`
	HttpServerIdleTimeoutSeconds  int      `env:"HTTP_SERVER_IDLE_TIMEOUT_SECONDS" env-default:"10"`
	MaxHeaderBytes                int      `env:"HTTP_SERVER_MAX_HEADER_BYTES" env-default:"64000"` // 64KB
	AllowOrigins                  []string `env:"HTTP_SERVER_ALLOW_ORIGINS" env-default:"*"`
	AllowMethods                  []string `env:"HTTP_SERVER_ALLOW_METHODS" env-default:"GET,POST,PUT,DELETE"`
	StartupMaxAttempts            int      `env:"STARTUP_MAX_ATTEMPTS" env-default:"5"`

	// Graph Database (Neo4j/Memgraph)
	GraphDBHost         string        `env:"GRAPH_DB_HOST" env-default:"localhost"`
	GraphDBPort         int           `env:"GRAPH_DB_PORT" env-default:"7687"`
	GraphDBUser         string        `env:"GRAPH_DB_USER" env-default:""`
	GraphDBPassword     string        `env:"GRAPH_DB_PASSWORD" env-default:""`
	GraphQueryTimeout   time.Duration `env:"GRAPH_QUERY_TIMEOUT" env-default:"5s"`
	GraphProbeTimeout   time.Duration `env:"GRAPH_PROBE_TIMEOUT" env-default:"10s"`

	// Kafka Producer (social event stream for the notification system)
	KafkaEnabled      bool     `env:"KAFKA_ENABLED" env-default:"true"`
	KafkaBrokers      []string `env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	KafkaOutputTopic  string   `env:"KAFKA_OUTPUT_TOPIC" env-default:"social-events"`
	KafkaBatchSize    int      `env:"KAFKA_BATCH_SIZE" env-default:"100"`
	KafkaBatchTimeout int      `env:"KAFKA_BATCH_TIMEOUT_MS" env-default:"100"`
	KafkaRequiredAcks int      `env:"KAFKA_REQUIRED_ACKS" env-default:"1"`
	KafkaCompression  string   `env:"KAFKA_COMPRESSION" env-default:"snappy"`

	// Tracing
	TracingEnabled  bool   `env:"TRACING_ENABLED" env-default:"false"`
	OTLPEndpoint    string `env:"OTLP_ENDPOINT" env-default:"localhost:4317"`
	OTLPProtocol    string `env:"OTLP_PROTOCOL" env-default:"grpc"`
	OTLPInsecure    bool   `env:"OTLP_INSECURE" env-default:"true"`

	// Query shaping
	MessagePageSizeDefault int `env:"MESSAGE_PAGE_SIZE_DEFAULT" env-default:"50"`
	MessagePageSizeMax     int `env:"MESSAGE_PAGE_SIZE_MAX" env-default:"200"`
	SuggestionLimitDefault int `env:"SUGGESTION_LIMIT_DEFAULT" env-default:"10"`
	SuggestionLimitMax     int `env:"SUGGESTION_LIMIT_MAX" env-default:"50"`
	ClanSearchLimit        int `env:"CLAN_SEARCH_LIMIT" env-default:"25"`
}
