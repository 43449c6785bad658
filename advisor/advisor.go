package advisor

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"app/models"
)

const modelName = "gemini-2.5-flash"

const emptyTable = "| Product Name | Supply Name | Analysis | Promotional Strategy |\n" +
	"| :---: | :---: | :---: | :---: |\n"

// Advisor sends promotion reports to the Gemini API and returns the model's
// Markdown table of suggestions.
type Advisor struct {
	client *genai.Client
	model  string
}

// New creates an Advisor. It fails when the API key is missing or the client
// cannot be constructed; callers should degrade rather than crash.
func New(ctx context.Context, apiKey string) (*Advisor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Advisor{client: client, model: modelName}, nil
}

// Close releases the underlying API client.
func (a *Advisor) Close() {
	if a.client != nil {
		a.client.Close()
	}
}

// Suggestions asks the model for promotional strategies for the five worst
// sell-through products in the report. It never returns an error: transport
// and quota failures come back as a single-row table describing the problem,
// so callers only ever deal with table text.
func (a *Advisor) Suggestions(ctx context.Context, report *models.PromotionReport) string {
	if report == nil || len(report.SlowMovingProducts) == 0 {
		log.Println("advisor called without slow-moving products, returning empty table")
		return emptyTable
	}

	prompt := buildPrompt(report)

	log.Printf("sending promotion request to %s (%d products)", a.model, report.TotalSlowProducts)

	resp, err := a.client.GenerativeModel(a.model).GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Printf("Gemini request failed: %v", err)
		return errorTable("API Error", fmt.Sprintf("The suggestion service is unavailable (%v).", err))
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		log.Println("Gemini response contained no candidates")
		return errorTable("API Error", "The model returned an empty response.")
	}

	raw := fmt.Sprint(resp.Candidates[0].Content.Parts[0])
	return keepTableLines(raw)
}

// buildPrompt renders the strict analysis request: pick exactly the 5 lowest
// sell-through products and answer with only a four-column Markdown table.
func buildPrompt(report *models.PromotionReport) string {
	var summary strings.Builder
	for _, p := range report.SlowMovingProducts {
		fmt.Fprintf(&summary,
			"- Name: %s, Manufacturer: %s, Price: $%.2f, Stock Remaining: %d, Units Sold: %d, Sell-Through STR: %.2f%%, Historical Promo Type: None, Historical Promo Lift: 0%%\n",
			p.ProductName, p.Manufacturer, p.Price, p.StockQuantity,
			p.SupplyQuantity-p.StockQuantity, p.SellThroughRate,
		)
	}

	return fmt.Sprintf(
		"You are a professional retail analyst. Your task is to perform an in-depth analysis and provide detailed, actionable promotional suggestions **only for the 5 products with the lowest Sell-Through Rate (STR)**, based on the provided product inventory and sales data.\n\n"+

			"--- Core Task and Constraints (Must be **STRICTLY ENFORCED**) ---\n"+
			"1. **Data Filtering (Highest Priority):** From all products, you **must strictly** select the **5 products with the lowest Sell-Through Rate** as the final subjects for analysis; **do not analyze any other products**.\n"+
			"2. **Output Format (Highest Priority):** The final output must be **ONLY a Markdown table**. **NO explanatory text, summaries, titles, or Markdown code fences (```) are allowed before or after the table**. The table must contain exactly 5 rows of suggestions.\n"+
			"3. **Table Structure:** The table must contain and **ONLY contain** the following four columns, with names matching exactly: 'Product Name', 'Supply Name', 'Analysis', 'Promotional Strategy'.\n"+
			"4. **Analysis Content Requirements:**\n"+
			"   - The analysis must be deep and exhaustive, aimed at explaining the root causes of sluggish sales.\n"+
			"   - **NOTE on Historical Data:** The Historical Promotion Type and Lift data is **missing** (marked as 'None'/'0%%'). The analysis should, therefore, focus purely on the extremely low STR, high stock quantity, and competitive pricing issues to determine an effective *first* major clearance strategy.\n"+
			"   - Identify the fundamental reasons for inventory accumulation (e.g., pricing too high, seasonality mismatch, competitive environment).\n"+
			"5. **Promotional Strategy Content Requirements:**\n"+
			"   - The strategy must be specific and actionable, **avoiding vague terms**.\n"+
			"   - Recommend a **strong clearance plan** to maximize inventory clearance immediately.\n"+
			"   - Detail the mechanism and specific execution details of the strategy (e.g., direct 30%% off, Buy One Get One Free, 2-week window, exclusive live stream campaign).\n\n"+

			"**Product Data (Total %d items):**\n%s\n"+
			"**START YOUR RESPONSE NOW. REMEMBER: ONLY A 5-ROW MARKDOWN TABLE IS ALLOWED.**",
		report.TotalSlowProducts, summary.String(),
	)
}

// keepTableLines strips everything the model emitted around the table,
// keeping only pipe-delimited rows and their separator line.
func keepTableLines(raw string) string {
	var kept []string
	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "```") {
			continue
		}
		if strings.HasPrefix(line, "|") && strings.HasSuffix(line, "|") {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// errorTable encodes a failure as a one-row table so the response shape
// never changes when the external service is down.
func errorTable(title, detail string) string {
	return emptyTable + fmt.Sprintf("| %s | N/A | %s | Retry once the service recovers. |", title, detail)
}
