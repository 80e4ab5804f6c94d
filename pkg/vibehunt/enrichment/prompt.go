package enrichment

import "fmt"

const systemPrompt = "You are a helpful assistant that analyzes websites and extracts structured information. Return only valid JSON."

func userPrompt(url string) string {
	return fmt.Sprintf(`Visit this URL: %s and extract information about this resource.
Please respond with ONLY a valid JSON object containing these fields:
- title: A concise, descriptive title for the resource (string, max 100 chars)
- description: A detailed description of what the resource is and what it does (string, 200-300 chars)
- short_description: A one-sentence summary of the resource (string, max 100 chars)
- tags: An array of 3-5 relevant tags that categorize this resource (e.g., "AI", "Design", "Productivity")

Focus on understanding what the tool/resource does and its primary features.
Return ONLY the JSON object with no other text.`, url)
}

// productInfoFormat asks the API to enforce the ProductInfo shape.
func productInfoFormat() *responseFormat {
	return &responseFormat{
		Type: "json_schema",
		JSONSchema: &jsonSchema{
			Schema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"title":             map[string]interface{}{"type": "string"},
					"description":       map[string]interface{}{"type": "string"},
					"short_description": map[string]interface{}{"type": "string"},
					"tags": map[string]interface{}{
						"type":  "array",
						"items": map[string]interface{}{"type": "string"},
					},
				},
				"required": []string{"title", "description", "short_description", "tags"},
			},
		},
	}
}
