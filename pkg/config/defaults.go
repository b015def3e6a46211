package config

const (
	defaultDocumentPath = "data/policy.txt"

	// Chunking defaults mirror the ingestion design: 1000 characters holds a
	// complete policy clause while several chunks still fit the generation
	// context window; 200 characters of overlap keep clause boundaries intact.
	defaultChunkMaxLength = 1000
	defaultChunkOverlap   = 200

	defaultTopK = 3

	defaultVectorProvider = "sqlite"
	defaultVectorPath     = "pragya.db"
	defaultVectorTarget   = "localhost:6334"

	// Provider base URLs default inside each provider package; an empty
	// target means "use the provider's own default".
	defaultEmbeddingProvider   = "ollama"
	defaultEmbeddingTarget     = ""
	defaultEmbeddingModel      = "nomic-embed-text"
	defaultEmbeddingDimensions = 768

	defaultGenerationProvider = "ollama"
	defaultGenerationTarget   = ""
	defaultGenerationModel    = "llama3.2"

	defaultAPIListen = ":8084"

	defaultReportDir = "."
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Document: DocumentConfig{
			Path: defaultDocumentPath,
		},
		Chunking: ChunkingConfig{
			MaxLength: defaultChunkMaxLength,
			Overlap:   defaultChunkOverlap,
		},
		Retrieval: RetrievalConfig{
			TopK: defaultTopK,
		},
		VectorStore: VectorStoreConfig{
			Provider: defaultVectorProvider,
			Path:     defaultVectorPath,
			Target:   defaultVectorTarget,
		},
		Embedding: EmbeddingConfig{
			Provider:   defaultEmbeddingProvider,
			Target:     defaultEmbeddingTarget,
			Model:      defaultEmbeddingModel,
			Dimensions: defaultEmbeddingDimensions,
		},
		Generation: GenerationConfig{
			Provider: defaultGenerationProvider,
			Target:   defaultGenerationTarget,
			Model:    defaultGenerationModel,
		},
		API: APIConfig{
			Listen: defaultAPIListen,
		},
		Eval: EvalConfig{
			ReportDir: defaultReportDir,
		},
	}
}
