package main

import (
	"context"
	"fmt"

	"github.com/redpanda-data/benthos/v4/public/service"

	_ "github.com/redpanda-data/benthos/v4/public/components/io"
	_ "github.com/redpanda-data/benthos/v4/public/components/pure"

	"github.com/twinfer/ytag-plugin/pkg/ytag"
)

// YtagProcessor is a Benthos processor that decodes tagged YAML documents
// into structured messages and encodes structured messages back to YAML,
// dispatching custom tags through a type-tag registry.
type YtagProcessor struct {
	config   YtagConfig
	registry *ytag.Registry
	logger   *service.Logger
	mDecoded *service.MetricCounter
	mEncoded *service.MetricCounter
	mErrors  *service.MetricCounter
}

// YtagConfig contains configuration parameters for the ytag processor.
type YtagConfig struct {
	IsDecoder   bool              `json:"is_decoder" yaml:"is_decoder"`
	Unavailable map[string]string `json:"unavailable" yaml:"unavailable"`
}

func init() {
	// Register the processor with Benthos
	err := service.RegisterProcessor(
		"ytag",
		ytagProcessorConfig(),
		func(conf *service.ParsedConfig, mgr *service.Resources) (service.Processor, error) {
			return newYtagProcessorFromConfig(conf, mgr)
		},
	)
	if err != nil {
		panic(err)
	}
}

// ytagProcessorConfig returns a config spec for a ytag processor.
func ytagProcessorConfig() *service.ConfigSpec {
	return service.NewConfigSpec().
		Summary("Decodes tagged YAML documents to structured data and encodes structured data back to tagged YAML.").
		Description("This processor routes custom YAML tags (e.g. !Variable) through a type-tag registry. Bindings registered into the process-wide registry by imported packages are picked up automatically; tags named under `unavailable` are recognized but fail decode with the configured reason.").
		Field(service.NewBoolField("is_decoder").
			Description("Whether this processor decodes YAML to structured data (true) or encodes structured data to YAML (false).").
			Default(true)).
		Field(service.NewStringMapField("unavailable").
			Description("Tags that are recognized by the format but unsupported in this pipeline, mapped to the reason reported on decode.").
			Default(map[string]any{})).
		Version("0.1.0")
}

// newYtagProcessorFromConfig creates a new YtagProcessor from a parsed config.
func newYtagProcessorFromConfig(conf *service.ParsedConfig, mgr *service.Resources) (*YtagProcessor, error) {
	isDecoder, err := conf.FieldBool("is_decoder")
	if err != nil {
		return nil, err
	}

	unavailable, err := conf.FieldStringMap("unavailable")
	if err != nil {
		return nil, err
	}

	config := YtagConfig{
		IsDecoder:   isDecoder,
		Unavailable: unavailable,
	}

	// Every processor instance extends the process-wide registry with its
	// own unavailable tags and seals the copy before any message flows.
	registry := ytag.Default().Clone()
	for tag, reason := range unavailable {
		if err := registry.RegisterUnavailable(tag, reason); err != nil {
			return nil, fmt.Errorf("registering unavailable tag %q: %w", tag, err)
		}
	}
	registry.Seal()

	logger := mgr.Logger()
	metrics := mgr.Metrics()

	return &YtagProcessor{
		config:   config,
		registry: registry,
		logger:   logger,
		mDecoded: metrics.NewCounter("ytag_decoded_messages"),
		mEncoded: metrics.NewCounter("ytag_encoded_messages"),
		mErrors:  metrics.NewCounter("ytag_processing_errors"),
	}, nil
}

// Process applies YAML decoding or encoding to a message.
func (y *YtagProcessor) Process(ctx context.Context, msg *service.Message) (service.MessageBatch, error) {
	if y.config.IsDecoder {
		return y.decodeYAML(msg)
	}
	return y.encodeYAML(msg)
}

// decodeYAML decodes a tagged YAML document into a structured message.
func (y *YtagProcessor) decodeYAML(msg *service.Message) (service.MessageBatch, error) {
	y.logger.Debug("Decoding tagged YAML document")

	data, err := msg.AsBytes()
	if err != nil {
		y.logger.Errorf("Failed to get document bytes from message: %v", err)
		y.mErrors.Incr(1)
		msg.SetError(fmt.Errorf("failed to get document bytes from message: %w", err))
		return service.MessageBatch{msg}, nil
	}

	if len(data) == 0 {
		y.logger.Warn("Empty document provided")
		y.mErrors.Incr(1)
		msg.SetError(fmt.Errorf("empty document provided"))
		return service.MessageBatch{msg}, nil
	}

	decoded, err := y.registry.Unmarshal(data)
	if err != nil {
		y.logger.Errorf("Failed to decode document of size %d bytes: %v", len(data), err)
		y.mErrors.Incr(1)
		msg.SetError(fmt.Errorf("failed to decode document: %w", err))
		return service.MessageBatch{msg}, nil
	}

	y.logger.Debugf("Successfully decoded %d bytes of YAML", len(data))
	y.mDecoded.Incr(1)

	// Records flatten to plain maps so downstream JSON stages can read them.
	newMsg := service.NewMessage(nil)
	newMsg.SetStructured(ytag.Plain(decoded))

	msg.MetaWalk(func(key, value string) error {
		newMsg.MetaSet(key, value)
		return nil
	})

	return service.MessageBatch{newMsg}, nil
}

// encodeYAML encodes a structured message into a YAML document.
func (y *YtagProcessor) encodeYAML(msg *service.Message) (service.MessageBatch, error) {
	y.logger.Debug("Encoding structured data to YAML")

	structData, err := msg.AsStructured()
	if err != nil {
		y.logger.Errorf("Failed to get structured data from message: %v", err)
		y.mErrors.Incr(1)
		msg.SetError(fmt.Errorf("failed to get structured data from message: %w", err))
		return service.MessageBatch{msg}, nil
	}

	data, err := y.registry.Marshal(structData)
	if err != nil {
		y.logger.Errorf("Failed to encode data: %v", err)
		y.mErrors.Incr(1)
		msg.SetError(fmt.Errorf("failed to encode data: %w", err))
		return service.MessageBatch{msg}, nil
	}

	y.logger.Debugf("Successfully encoded data to %d bytes of YAML", len(data))
	y.mEncoded.Incr(1)

	newMsg := service.NewMessage(data)

	msg.MetaWalk(func(key, value string) error {
		newMsg.MetaSet(key, value)
		return nil
	})

	return service.MessageBatch{newMsg}, nil
}

// Close the processor resources.
func (y *YtagProcessor) Close(ctx context.Context) error {
	y.logger.Debug("Closing ytag processor")
	return nil
}

func main() {
	service.RunCLI(context.Background())
}
