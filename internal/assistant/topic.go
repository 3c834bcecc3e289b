package assistant

import "strings"

type Topic string

const (
	TopicRevenue    Topic = "revenue"
	TopicRegion     Topic = "region"
	TopicProductMix Topic = "product_mix"
	TopicPerformers Topic = "performers"
	TopicForecast   Topic = "forecast"
	TopicGrowth     Topic = "growth"
	TopicGeneric    Topic = "generic"
)

type topicRule struct {
	topic    Topic
	keywords []string
}

// topicRules is evaluated top to bottom and the first hit wins, so a question
// mentioning both a region and a product is a region question. Reordering
// changes answers.
var topicRules = []topicRule{
	{TopicRevenue, []string{"revenue", "month", "receita", "mês"}},
	{TopicRegion, []string{"region", "performance", "região", "desempenho"}},
	{TopicProductMix, []string{"product", "category", "mix", "produto", "divisão"}},
	{TopicPerformers, []string{"top", "best", "performer", "melhor", "quem"}},
	{TopicForecast, []string{"forecast", "predict", "next", "prever", "próximo", "trimestre"}},
	{TopicGrowth, []string{"growth", "driving", "crescimento", "impulsionando"}},
}

// Classify maps a free-text question to a Topic. Matching is a
// case-insensitive substring test; anything unmatched is TopicGeneric.
func Classify(query string) Topic {
	lower := strings.ToLower(query)
	for _, rule := range topicRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.topic
			}
		}
	}
	return TopicGeneric
}
