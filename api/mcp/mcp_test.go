package mcp_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/neuradynamics/pragya/api/mcp"
	"github.com/neuradynamics/pragya/pkg/rag"
	testutils "github.com/neuradynamics/pragya/pkg/utils/test"
)

func TestMCP(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "MCP Suite")
}

var _ = Describe("MCP Server", func() {
	var (
		logger    *zap.Logger
		retriever *rag.Retriever
		composer  *rag.Composer
	)

	BeforeEach(func() {
		logger = zap.NewNop()
		embedder := testutils.NewMockEmbedder()
		driver := testutils.NewMockVectorDriver()
		generator := testutils.NewMockGenerator("answer")

		retriever = rag.NewRetriever(embedder, driver, 3, logger)
		composer = rag.NewComposer(retriever, generator, logger)
	})

	Describe("NewServer", func() {
		It("returns an error when retriever is nil", func() {
			_, err := mcp.NewServer(mcp.Config{
				Composer: composer,
				Logger:   logger,
			})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("retriever is required"))
		})

		It("returns an error when composer is nil", func() {
			_, err := mcp.NewServer(mcp.Config{
				Retriever: retriever,
				Logger:    logger,
			})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("composer is required"))
		})

		It("returns an error when logger is nil", func() {
			_, err := mcp.NewServer(mcp.Config{
				Retriever: retriever,
				Composer:  composer,
			})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("logger is required"))
		})

		It("creates a server with an HTTP handler", func() {
			server, err := mcp.NewServer(mcp.Config{
				Retriever: retriever,
				Composer:  composer,
				Logger:    logger,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(server.Handler()).NotTo(BeNil())
		})

		It("creates an empty server when noop is set", func() {
			server, err := mcp.NewServer(mcp.Config{Noop: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(server).NotTo(BeNil())
		})
	})
})
