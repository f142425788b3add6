package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
	"go.uber.org/zap"

	"github.com/sandeep-kumarpalo/taglayer/internal/domain"
	"github.com/sandeep-kumarpalo/taglayer/internal/domain/record"
	"github.com/sandeep-kumarpalo/taglayer/internal/metrics"
)

const taggerMaxTokens = 500

// Tagger assigns risk metadata to raw rows through an OpenAI-compatible
// chat completion endpoint with forced function calling. Temperature is
// pinned to zero so repeated runs over the same rows converge.
type Tagger struct {
	client   *openai.Client
	model    string
	provider string
	logger   *zap.Logger
}

// TaggerConfig holds the tagging provider settings.
type TaggerConfig struct {
	APIKey   string
	BaseURL  string
	Model    string
	Provider string
	Logger   *zap.Logger
}

// NewTagger creates an OpenAI-compatible tagging provider.
func NewTagger(cfg *TaggerConfig) *Tagger {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Tagger{
		client:   openai.NewClientWithConfig(clientCfg),
		model:    cfg.Model,
		provider: cfg.Provider,
		logger:   cfg.Logger,
	}
}

// piiFunction is the forced tool schema for communication tagging.
var piiFunction = openai.FunctionDefinition{
	Name:        "tag_pii_and_mask",
	Description: "Detect and mask PII in customer messages",
	Parameters: jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"message_id":   {Type: jsonschema.String},
			"masked_text":  {Type: jsonschema.String},
			"pii_entities": {Type: jsonschema.Array, Items: &jsonschema.Definition{Type: jsonschema.String}},
			"risk_flag": {
				Type: jsonschema.String,
				Enum: []string{"Low", "Medium", "High", "Critical"},
			},
		},
		Required: []string{"masked_text", "pii_entities", "risk_flag"},
	},
}

// amlFunction is the forced tool schema for transaction tagging.
var amlFunction = openai.FunctionDefinition{
	Name:        "tag_aml_risk",
	Description: "Detect AML typologies and score risk",
	Parameters: jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"transaction_id":   {Type: jsonschema.String},
			"masked_narrative": {Type: jsonschema.String},
			"aml_tags":         {Type: jsonschema.Array, Items: &jsonschema.Definition{Type: jsonschema.String}},
			"risk_score":       {Type: jsonschema.Number},
			"explanation":      {Type: jsonschema.String},
		},
		Required: []string{"masked_narrative", "aml_tags", "risk_score", "explanation"},
	},
}

// regFunction is the forced tool schema for regulatory paragraph tagging.
var regFunction = openai.FunctionDefinition{
	Name:        "tag_regulatory_obligation",
	Description: "Extract regulatory obligation metadata",
	Parameters: jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"paragraph_id":  {Type: jsonschema.String},
			"regulation":    {Type: jsonschema.String},
			"article":       {Type: jsonschema.String},
			"risk_type":     {Type: jsonschema.String},
			"business_unit": {Type: jsonschema.Array, Items: &jsonschema.Definition{Type: jsonschema.String}},
			"owner":         {Type: jsonschema.String},
			"deadline": {
				Type:        jsonschema.String,
				Description: "e.g. Ongoing, Annual, 2026-12-31",
			},
		},
		Required: []string{"regulation", "risk_type", "business_unit"},
	},
}

const piiSystemPrompt = `You are a banking PII detection expert for a Singapore retail bank.
For each message: list every PII entity (NRIC, passport, account number, phone,
salary, address, employee ID, PayNow ID), produce a masked_text replacing each
value with a placeholder like <NRIC> or <ACCOUNT>, and assign risk_flag:
Critical when NRIC appears together with an account number, salary or address,
or when three or more distinct PII types appear; High for a lone NRIC, passport
or account number; Medium for a lone salary, phone, email or employee ID; Low
for generic references with no concrete identifiers.`

const amlSystemPrompt = `You are an AML expert for Singapore and Hong Kong. Detect structuring,
smurfing, funnel accounts, crypto, gambling and trade-based laundering in the
narrative. Score risk_score between 0 and 10 and explain briefly why.`

const regSystemPrompt = `You are a regulatory mapping expert for MAS, HKMA and Basel III. For each
paragraph extract the regulation identifier, risk_type, business_unit (owner
teams) and owner. Use realistic owners such as Compliance, MLRO or Operations.`

// TagCommunication implements domain.Tagger for customer messages.
func (t *Tagger) TagCommunication(ctx context.Context, c record.Communication) (record.Communication, error) {
	prompt := fmt.Sprintf("Message ID: %s\nText: %s", c.MessageID, c.Text)

	args, err := t.callFunction(ctx, "pii", piiSystemPrompt, prompt, piiFunction)
	if err != nil {
		return record.Communication{}, err
	}

	var out struct {
		MaskedText  string   `json:"masked_text"`
		PIIEntities []string `json:"pii_entities"`
		RiskFlag    string   `json:"risk_flag"`
	}
	if err := json.Unmarshal(args, &out); err != nil {
		metrics.TaggingErrorsTotal.WithLabelValues("pii", "bad_arguments").Inc()
		return record.Communication{}, fmt.Errorf("decode pii arguments: %w", domain.ErrTaggingProviderError)
	}
	risk := record.RiskLevel(out.RiskFlag)
	if !risk.IsValid() {
		metrics.TaggingErrorsTotal.WithLabelValues("pii", "invalid_result").Inc()
		return record.Communication{}, fmt.Errorf("invalid risk flag %q: %w", out.RiskFlag, domain.ErrTaggingProviderError)
	}

	c.MaskedText = out.MaskedText
	c.Entities = out.PIIEntities
	c.Risk = risk
	return c, nil
}

// TagTransaction implements domain.Tagger for transaction narratives.
func (t *Tagger) TagTransaction(ctx context.Context, tx record.Transaction) (record.Transaction, error) {
	amount := "(unknown)"
	if tx.AmountSGD != nil {
		amount = fmt.Sprintf("%v", *tx.AmountSGD)
	}
	prompt := fmt.Sprintf("Transaction ID: %s\nAmount: %s SGD\nNarrative: %s",
		tx.TransactionID, amount, tx.Narrative)

	args, err := t.callFunction(ctx, "aml", amlSystemPrompt, prompt, amlFunction)
	if err != nil {
		return record.Transaction{}, err
	}

	var out struct {
		MaskedNarrative string   `json:"masked_narrative"`
		AMLTags         []string `json:"aml_tags"`
		RiskScore       float64  `json:"risk_score"`
	}
	if err := json.Unmarshal(args, &out); err != nil {
		metrics.TaggingErrorsTotal.WithLabelValues("aml", "bad_arguments").Inc()
		return record.Transaction{}, fmt.Errorf("decode aml arguments: %w", domain.ErrTaggingProviderError)
	}
	if out.RiskScore < 0 || out.RiskScore > 10 {
		metrics.TaggingErrorsTotal.WithLabelValues("aml", "invalid_result").Inc()
		return record.Transaction{}, fmt.Errorf("risk score %v out of range: %w", out.RiskScore, domain.ErrTaggingProviderError)
	}

	tx.MaskedNarrative = out.MaskedNarrative
	tx.Tags = out.AMLTags
	score := out.RiskScore
	tx.RiskScore = &score
	return tx, nil
}

// TagRegParagraph implements domain.Tagger for regulatory paragraphs.
func (t *Tagger) TagRegParagraph(ctx context.Context, p record.RegParagraph) (record.RegParagraph, error) {
	prompt := fmt.Sprintf("Paragraph ID: %s\nSource: %s\nText: %s",
		p.ParagraphID, p.SourceDocument, p.Text)

	args, err := t.callFunction(ctx, "reg", regSystemPrompt, prompt, regFunction)
	if err != nil {
		return record.RegParagraph{}, err
	}

	var out struct {
		Regulation   string   `json:"regulation"`
		Article      string   `json:"article"`
		RiskType     string   `json:"risk_type"`
		BusinessUnit []string `json:"business_unit"`
		Owner        string   `json:"owner"`
		Deadline     string   `json:"deadline"`
	}
	if err := json.Unmarshal(args, &out); err != nil {
		metrics.TaggingErrorsTotal.WithLabelValues("reg", "bad_arguments").Inc()
		return record.RegParagraph{}, fmt.Errorf("decode reg arguments: %w", domain.ErrTaggingProviderError)
	}

	if out.Regulation != "" {
		p.Regulation = out.Regulation
	}
	if out.Article != "" {
		p.Article = out.Article
	}
	p.RiskType = out.RiskType
	p.BusinessUnits = out.BusinessUnit
	p.Owner = out.Owner
	p.Deadline = out.Deadline
	return p, nil
}

// callFunction runs a single forced-tool-call chat completion and returns
// the raw function arguments.
func (t *Tagger) callFunction(ctx context.Context, dataset, system, prompt string, fn openai.FunctionDefinition) (json.RawMessage, error) {
	req := openai.ChatCompletionRequest{
		Model: t.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Tools: []openai.Tool{
			{Type: openai.ToolTypeFunction, Function: &fn},
		},
		ToolChoice: openai.ToolChoice{
			Type:     openai.ToolTypeFunction,
			Function: openai.ToolFunction{Name: fn.Name},
		},
		Temperature: 0,
		MaxTokens:   taggerMaxTokens,
	}

	start := time.Now()

	resp, err := t.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.TaggingErrorsTotal.WithLabelValues(dataset, "api_error").Inc()
		return nil, parseAPIError("tagging", err, domain.ErrTaggingProviderError)
	}

	metrics.TaggingRequestDuration.WithLabelValues(dataset).Observe(duration.Seconds())

	if len(resp.Choices) == 0 || len(resp.Choices[0].Message.ToolCalls) == 0 {
		metrics.TaggingErrorsTotal.WithLabelValues(dataset, "no_tool_call").Inc()
		return nil, fmt.Errorf("no tool call in completion: %w", domain.ErrTaggingProviderError)
	}

	call := resp.Choices[0].Message.ToolCalls[0]
	if call.Function.Name != fn.Name {
		metrics.TaggingErrorsTotal.WithLabelValues(dataset, "no_tool_call").Inc()
		return nil, fmt.Errorf("unexpected tool call %q: %w", call.Function.Name, domain.ErrTaggingProviderError)
	}

	return json.RawMessage(call.Function.Arguments), nil
}
