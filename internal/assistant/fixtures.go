package assistant

type fixture struct {
	narrative string
	chart     *Chart
}

// ApologyNarrative is returned whenever synthesis fails.
const ApologyNarrative = "I'm sorry, but I encountered an error while processing your query. Please try again with a different question."

var fixtures = map[Topic]fixture{
	TopicRevenue: {
		narrative: "Here is your monthly revenue trend. May and December were your strongest months, with May reaching $401K and December closing at $492K. There is a clear upward trend across the year, with 15.2% growth compared to last year.",
		chart: &Chart{
			Type: ChartLine,
			Data: []map[string]any{
				{"month": "Jan", "revenue": 245000},
				{"month": "Feb", "revenue": 198000},
				{"month": "Mar", "revenue": 312000},
				{"month": "Apr", "revenue": 289000},
				{"month": "May", "revenue": 401000},
				{"month": "Jun", "revenue": 378000},
				{"month": "Jul", "revenue": 423000},
				{"month": "Aug", "revenue": 395000},
				{"month": "Sep", "revenue": 445000},
				{"month": "Oct", "revenue": 421000},
				{"month": "Nov", "revenue": 467000},
				{"month": "Dec", "revenue": 492000},
			},
		},
	},
	TopicRegion: {
		narrative: "Regional performance shows North America leading with $1.25M in sales and 15.2% growth. Asia-Pacific is your fastest growing region at 22.1% with $756K in sales. Latin America needs attention with a -3.4% decline.",
		chart: &Chart{
			Type: ChartBar,
			Data: []map[string]any{
				{"region": "North America", "sales": 1250000},
				{"region": "Europe", "sales": 980000},
				{"region": "Asia-Pacific", "sales": 756000},
				{"region": "Latin America", "sales": 340000},
				{"region": "Middle East", "sales": 189000},
			},
		},
	},
	TopicProductMix: {
		narrative: "Software Licenses dominate your product mix with 45% of revenue ($2.1M), followed by Professional Services at 25% ($1.17M). Training is the smallest segment but offers room to grow.",
		chart: &Chart{
			Type: ChartPie,
			Data: []map[string]any{
				{"name": "Software Licenses", "value": 45, "revenue": 2100000},
				{"name": "Professional Services", "value": 25, "revenue": 1175000},
				{"name": "Support & Maintenance", "value": 20, "revenue": 940000},
				{"name": "Training", "value": 10, "revenue": 470000},
			},
		},
	},
	TopicPerformers: {
		narrative: "Sarah Johnson is your top seller with $850K in revenue from 45 deals, reaching 120% of quota. Mike Chen and Emily Rodriguez are also beating their targets. Look at what makes these reps successful and scale those practices.",
		chart: &Chart{
			Type: ChartBar,
			Data: []map[string]any{
				{"name": "Sarah Johnson", "revenue": 850000, "quota": 120},
				{"name": "Mike Chen", "revenue": 720000, "quota": 95},
				{"name": "Emily Rodriguez", "revenue": 680000, "quota": 105},
				{"name": "David Kim", "revenue": 590000, "quota": 88},
				{"name": "Lisa Thompson", "revenue": 520000, "quota": 78},
			},
		},
	},
	TopicForecast: {
		narrative: "Based on current trends, I forecast Q1 2025 revenue reaching $1.35M, an 18% increase. The model accounts for seasonality, pipeline velocity and market conditions. Key drivers include the expanded Asia-Pacific presence and new product launches.",
		chart: &Chart{
			Type: ChartLine,
			Data: []map[string]any{
				{"quarter": "Q1 2024", "actual": 755000, "predicted": nil},
				{"quarter": "Q2 2024", "actual": 1068000, "predicted": nil},
				{"quarter": "Q3 2024", "actual": 1263000, "predicted": nil},
				{"quarter": "Q4 2024", "actual": 1380000, "predicted": nil},
				{"quarter": "Q1 2025", "actual": nil, "predicted": 1350000},
				{"quarter": "Q2 2025", "actual": nil, "predicted": 1420000},
			},
		},
	},
	TopicGrowth: {
		narrative: "Your growth is driven mainly by three factors: (1) expansion in the enterprise segment (+28%), (2) a higher average ticket (+15.7%) and (3) better customer retention (95%). The upselling strategy has been particularly effective, generating 34% more revenue per existing customer.",
	},
}

var genericNarratives = []string{
	"Based on your data, I notice a few interesting patterns. Your conversion rate dipped slightly to 20%, but the average deal size grew 5.7% to $16.9K. You are closing fewer deals, but of higher value.",
	"Your sales team is performing well overall. The data shows consistent growth across most metrics, with particularly strong results in the enterprise segment.",
	"Looking at your customer acquisition trends, there has been a shift toward higher value customers. This lines up with your premium positioning strategy.",
	"The data shows seasonal patterns in your business, with Q4 traditionally your strongest quarter. Consider adjusting your forecasting models accordingly.",
}
