package prompts

const scaleSuffix = "Respond with a single number from 1 to 7 and nothing else.\n\nArticle text:\n{article_text}"

const defaultSummaryTemplate = "Summarize the following news article in two or three " +
	"neutral sentences. Do not editorialize.\n\nArticle text:\n{article_text}"

var defaultDimensions = []DimensionSpec{
	{
		Name: "partisan_bias",
		PromptTemplate: "Rate the partisan lean of this article on a 1-7 scale, " +
			"where 1 is strongly left-leaning, 4 is balanced, and 7 is strongly right-leaning. " +
			scaleSuffix,
		Min: 1, Max: 7,
	},
	{
		Name: "affective_bias",
		PromptTemplate: "Rate the emotional charge of this article's language on a 1-7 scale, " +
			"where 1 is clinical and detached and 7 is heavily loaded or inflammatory. " +
			scaleSuffix,
		Min: 1, Max: 7,
	},
	{
		Name: "framing_bias",
		PromptTemplate: "Rate how one-sided the framing of this article is on a 1-7 scale, " +
			"where 1 presents competing perspectives fairly and 7 presents a single perspective only. " +
			scaleSuffix,
		Min: 1, Max: 7,
	},
	{
		Name: "sourcing_bias",
		PromptTemplate: "Rate the sourcing quality of this article on a 1-7 scale, " +
			"where 1 cites diverse, verifiable primary sources and 7 relies on anonymous or partisan sources. " +
			scaleSuffix,
		Min: 1, Max: 7,
	},
}

// Default returns the built-in four-dimension registry used when no
// prompts file is configured.
func Default() *Registry {
	reg, err := build(defaultDimensions, defaultSummaryTemplate)
	if err != nil {
		// Built-in specs are validated by tests; a failure here is a bug.
		panic(err)
	}
	return reg
}
