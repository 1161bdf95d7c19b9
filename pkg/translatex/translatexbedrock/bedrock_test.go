package translatexbedrock

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/rohit9625/natively-backend/pkg/translatex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockConverse struct {
	input  *bedrockruntime.ConverseInput
	output *bedrockruntime.ConverseOutput
	err    error
}

func (m *mockConverse) Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error) {
	m.input = params
	return m.output, m.err
}

func TestBedrockProvider_Translate(t *testing.T) {
	mock := &mockConverse{output: &bedrockruntime.ConverseOutput{
		Output: &types.ConverseOutputMemberMessage{Value: types.Message{
			Role:    types.ConversationRoleAssistant,
			Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: "Hola"}},
		}},
	}}
	p := NewBedrockProviderWithClient(mock, WithFastModel("fast-model"))

	out, err := p.Translate(context.Background(), translatex.Request{Text: "Hello", TargetLocale: "es", Fast: true})
	require.NoError(t, err)
	assert.Equal(t, "Hola", out)
	assert.Equal(t, "fast-model", aws.ToString(mock.input.ModelId))
	assert.Equal(t, float32(0), aws.ToFloat32(mock.input.InferenceConfig.Temperature))
}

func TestBedrockProvider_Throttled(t *testing.T) {
	mock := &mockConverse{err: errors.New("ThrottlingException: Too many requests")}
	_, err := NewBedrockProviderWithClient(mock).Translate(context.Background(), translatex.Request{Text: "Hello", TargetLocale: "es"})
	assert.ErrorIs(t, err, ErrAPIRateLimit)
}

func TestBedrockProvider_UnexpectedOutput(t *testing.T) {
	mock := &mockConverse{output: &bedrockruntime.ConverseOutput{}}
	_, err := NewBedrockProviderWithClient(mock).Translate(context.Background(), translatex.Request{Text: "Hello", TargetLocale: "es"})
	assert.ErrorIs(t, err, ErrAPIResponse)
}
