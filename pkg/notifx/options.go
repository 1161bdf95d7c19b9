package notifx

// SendOptions are per-send settings a provider may honour or ignore.
type SendOptions struct {
	// Tags are attached to the message for provider-side filtering.
	Tags map[string]string
	// ConfigID names a provider configuration set (SES configuration set).
	ConfigID string
}

type Option func(*SendOptions)

// WithTags merges tags into the send. Later options win on key clashes.
func WithTags(tags map[string]string) Option {
	return func(o *SendOptions) {
		if o.Tags == nil {
			o.Tags = make(map[string]string, len(tags))
		}
		for k, v := range tags {
			o.Tags[k] = v
		}
	}
}

// WithTag adds a single tag.
func WithTag(key, value string) Option {
	return WithTags(map[string]string{key: value})
}

func WithConfigID(id string) Option {
	return func(o *SendOptions) { o.ConfigID = id }
}

// ApplySendOptions folds opts into a SendOptions value for providers.
func ApplySendOptions(opts []Option) SendOptions {
	var so SendOptions
	for _, o := range opts {
		o(&so)
	}
	return so
}
