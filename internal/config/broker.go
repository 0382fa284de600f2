package config

type BrokerConfig struct {
	URL      string `yaml:"url"`
	Exchange string `yaml:"exchange"`
}

func loadBrokerConfig() *BrokerConfig {
	return &BrokerConfig{
		URL:      getEnv("RABBITMQ_URL", ""),
		Exchange: getEnv("RABBITMQ_EXCHANGE", "mealhub.events"),
	}
}

func (b *BrokerConfig) Enabled() bool {
	return b != nil && b.URL != ""
}
