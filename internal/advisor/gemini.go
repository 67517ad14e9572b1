package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dvloznov/dompet-cerdas/internal/ledger"
	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

// DefaultModelName is the Gemini model used when none is configured.
const DefaultModelName = "gemini-2.5-flash"

// Gemini is the Gateway implementation backed by the Gemini API.
type Gemini struct {
	apiKey string
	model  string
	log    zerolog.Logger
}

// NewGemini creates a Gemini gateway. An empty apiKey is allowed; every
// call then returns its fallback without touching the network.
func NewGemini(apiKey, model string, log zerolog.Logger) *Gemini {
	if model == "" {
		model = DefaultModelName
	}
	return &Gemini{
		apiKey: apiKey,
		model:  model,
		log:    log,
	}
}

// SuggestCategory implements the Gateway interface.
func (g *Gemini) SuggestCategory(ctx context.Context, description string, t ledger.Type) string {
	if g.apiKey == "" {
		g.log.Debug().Msg("No API key configured, skipping category suggestion")
		return ""
	}

	suggestion, err := g.suggestCategory(ctx, description, t)
	if err != nil {
		g.log.Warn().Err(err).Str("description", description).Msg("Category suggestion failed")
		return ""
	}
	return suggestion
}

func (g *Gemini) suggestCategory(ctx context.Context, description string, t ledger.Type) (string, error) {
	categories := ledger.CategoriesFor(t)
	if len(categories) == 0 {
		return "", fmt.Errorf("suggestCategory: no categories for type %q", t)
	}

	prompt := fmt.Sprintf(
		"Saya memiliki transaksi keuangan dengan deskripsi: %q.\n"+
			"Tolong kategorikan transaksi ini ke dalam salah satu kategori berikut: %s.\n"+
			"Jika tidak ada yang cocok, pilih \"Lainnya\".\n"+
			"Hanya kembalikan nama kategorinya saja.",
		description, strings.Join(categories, ", "))

	client, err := g.newClient(ctx)
	if err != nil {
		return "", err
	}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"category": {Type: genai.TypeString},
			},
			Required: []string{"category"},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("suggestCategory: generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("suggestCategory: empty response from model")
	}

	var parsed struct {
		Category string `json:"category"`
	}
	if err := json.Unmarshal([]byte(cleanModelJSON(text)), &parsed); err != nil {
		return "", fmt.Errorf("suggestCategory: unmarshal JSON: %w\nraw response: %s", err, text)
	}

	if parsed.Category == "" {
		return "Lainnya", nil
	}
	return parsed.Category, nil
}

// GetFinancialAdvice implements the Gateway interface.
func (g *Gemini) GetFinancialAdvice(ctx context.Context, txs []ledger.Transaction) string {
	if g.apiKey == "" {
		g.log.Debug().Msg("No API key configured, returning fallback advice")
		return FallbackMissingKey
	}

	advice, err := g.financialAdvice(ctx, txs)
	if err != nil {
		g.log.Warn().Err(err).Int("transactions", len(txs)).Msg("Financial advice failed")
		return FallbackError
	}
	if advice == "" {
		return FallbackNoAdvice
	}
	return advice
}

func (g *Gemini) financialAdvice(ctx context.Context, txs []ledger.Transaction) (string, error) {
	summary, err := json.Marshal(simplify(txs))
	if err != nil {
		return "", fmt.Errorf("financialAdvice: marshal summary: %w", err)
	}

	prompt := fmt.Sprintf(
		"Bertindaklah sebagai penasihat keuangan pribadi yang bijak dan ramah.\n"+
			"Mata uang yang digunakan adalah Rupiah (IDR).\n\n"+
			"Berikut adalah riwayat transaksi pengguna dalam format JSON:\n%s\n\n"+
			"Tolong berikan analisis singkat dan saran yang dapat ditindaklanjuti "+
			"(maksimal 3 poin utama) dalam Bahasa Indonesia.\n"+
			"Fokus pada pola pengeluaran, peluang penghematan, atau pujian jika keuangan sehat.\n"+
			"Gunakan format Markdown.",
		summary)

	client, err := g.newClient(ctx)
	if err != nil {
		return "", err
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("financialAdvice: generate content: %w", err)
	}

	return strings.TrimSpace(resp.Text()), nil
}

func (g *Gemini) newClient(ctx context.Context) (*genai.Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      g.apiKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return client, nil
}

// cleanModelJSON strips Markdown fences and surrounding junk the model may
// wrap its JSON in despite instructions.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	// Keep only the outermost JSON object if there is extra text around it.
	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}

// Ensure Gemini implements the Gateway interface.
var _ Gateway = (*Gemini)(nil)
