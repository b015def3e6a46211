package config_test

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	"github.com/neuradynamics/pragya/pkg/config"
)

func TestConfig(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Config Suite")
}

var _ = Describe("Configer config", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "config-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	Describe("LoadConfig", func() {
		It("returns default config when no config file exists", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg).NotTo(BeNil())

			defaults := config.NewDefaultConfig()
			Expect(cfg.Version).To(Equal(defaults.Version))
			Expect(cfg.Document.Path).To(Equal(defaults.Document.Path))
			Expect(cfg.Chunking.MaxLength).To(Equal(defaults.Chunking.MaxLength))
			Expect(cfg.Chunking.Overlap).To(Equal(defaults.Chunking.Overlap))
			Expect(cfg.Retrieval.TopK).To(Equal(defaults.Retrieval.TopK))
			Expect(cfg.VectorStore.Provider).To(Equal(defaults.VectorStore.Provider))
			Expect(cfg.Embedding.Provider).To(Equal(defaults.Embedding.Provider))
			Expect(cfg.Embedding.Model).To(Equal(defaults.Embedding.Model))
			Expect(cfg.Embedding.Dimensions).To(Equal(defaults.Embedding.Dimensions))
			Expect(cfg.Generation.Provider).To(Equal(defaults.Generation.Provider))
			Expect(cfg.API.Listen).To(Equal(defaults.API.Listen))
		})

		It("loads a valid config file and merges defaults", func() {
			data := `version = 0

[document]
path = "policies/acceptable-use.txt"

[embedding]
model = "embeddinggemma"
dimensions = 768

[retrieval]
top_k = 5
`
			err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)
			Expect(err).NotTo(HaveOccurred())

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Document.Path).To(Equal("policies/acceptable-use.txt"))
			Expect(cfg.Embedding.Model).To(Equal("embeddinggemma"))
			Expect(cfg.Retrieval.TopK).To(Equal(5))

			// Unset sections fall back to defaults.
			defaults := config.NewDefaultConfig()
			Expect(cfg.Chunking.MaxLength).To(Equal(defaults.Chunking.MaxLength))
			Expect(cfg.Generation.Provider).To(Equal(defaults.Generation.Provider))
		})

		It("rejects a config with an unsupported version", func() {
			data := "version = 99\n"
			err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)
			Expect(err).NotTo(HaveOccurred())

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			_, err = c.LoadConfig()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("unsupported config version"))
		})
	})

	Describe("SaveConfig", func() {
		It("round-trips a config through disk", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg := config.NewDefaultConfig()
			cfg.Document.Path = "data/terms.txt"
			cfg.VectorStore.Provider = "bolt"

			Expect(c.SaveConfig(cfg)).To(Succeed())

			loaded, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.Document.Path).To(Equal("data/terms.txt"))
			Expect(loaded.VectorStore.Provider).To(Equal("bolt"))
		})

		It("errors on nil config", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.SaveConfig(nil)).NotTo(Succeed())
		})
	})

	Describe("SetConfigValue and GetConfigValue", func() {
		It("sets and gets a string key", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			Expect(c.SetConfigValue("embedding.model", "all-minilm")).To(Succeed())

			got, err := c.GetConfigValue("embedding.model")
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal("all-minilm"))
		})

		It("sets and gets a numeric key", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			Expect(c.SetConfigValue("retrieval.top_k", "7")).To(Succeed())

			got, err := c.GetConfigValue("retrieval.top_k")
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal("7"))
		})

		It("rejects unknown keys", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			Expect(c.SetConfigValue("nope.nope", "x")).NotTo(Succeed())
			_, err = c.GetConfigValue("nope.nope")
			Expect(err).To(HaveOccurred())
		})

		It("rejects invalid numeric values", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			Expect(c.SetConfigValue("chunking.max_length", "not-a-number")).NotTo(Succeed())
			Expect(c.SetConfigValue("chunking.max_length", "-10")).NotTo(Succeed())
		})
	})

	Describe("ValidConfigKeys", func() {
		It("covers every registered key exactly once", func() {
			keys := config.ValidConfigKeys()
			seen := map[string]bool{}
			for _, k := range keys {
				Expect(seen[k]).To(BeFalse(), "duplicate key %q", k)
				seen[k] = true
				Expect(config.IsValidConfigKey(k)).To(BeTrue())
			}
			Expect(keys).To(ContainElement("document.path"))
			Expect(keys).To(ContainElement("vector_store.provider"))
			Expect(keys).To(ContainElement("generation.model"))
		})
	})
})

var _ = Describe("Flags", func() {
	It("binds registered flags to viper keys", func() {
		cmd := &cobra.Command{Use: "test"}
		fs := config.DefaultFlagSet()

		var topK int
		config.AddIntFlag(cmd, fs, config.FlagTopK, &topK)

		Expect(cmd.Flags().Lookup("top-k")).NotTo(BeNil())
		Expect(topK).To(Equal(config.NewDefaultConfig().Retrieval.TopK))

		v, err := config.InitViper(GinkgoT().TempDir())
		Expect(err).NotTo(HaveOccurred())

		Expect(cmd.Flags().Set("top-k", "9")).To(Succeed())
		config.BindRegisteredFlags(v, cmd, fs, []string{config.FlagTopK})
		Expect(v.GetInt("retrieval.top_k")).To(Equal(9))
	})

	It("applies defaults through viper when flags are unset", func() {
		v, err := config.InitViper(GinkgoT().TempDir())
		Expect(err).NotTo(HaveOccurred())

		d := config.NewDefaultConfig()
		Expect(v.GetString("embedding.provider")).To(Equal(d.Embedding.Provider))
		Expect(v.GetInt("chunking.max_length")).To(Equal(d.Chunking.MaxLength))
	})
})
