package rag_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/neuradynamics/pragya/pkg/chunker"
	"github.com/neuradynamics/pragya/pkg/rag"
	testutils "github.com/neuradynamics/pragya/pkg/utils/test"
	"github.com/neuradynamics/pragya/pkg/vector"
)

func TestRag(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "RAG Suite")
}

var _ = Describe("LoadDocument", func() {
	It("should load a file and use its base name as the source", func() {
		path := filepath.Join(GinkgoT().TempDir(), "policy.txt")
		Expect(os.WriteFile(path, []byte("Web scraping is strictly prohibited."), 0644)).To(Succeed())

		doc, err := rag.LoadDocument(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(doc.Text).To(Equal("Web scraping is strictly prohibited."))
		Expect(doc.Source).To(Equal("policy.txt"))
	})

	It("should return an error for a missing file", func() {
		_, err := rag.LoadDocument("/nonexistent/policy.txt")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Ingestor", func() {
	var (
		logger   *zap.Logger
		embedder *testutils.MockEmbedder
		driver   *testutils.MockVectorDriver
		ingestor *rag.Ingestor
		docPath  string
	)

	BeforeEach(func() {
		logger = zap.NewNop()
		embedder = testutils.NewMockEmbedder()
		driver = testutils.NewMockVectorDriver()
		ingestor = rag.NewIngestor(
			chunker.New(chunker.Config{MaxLength: 40, Overlap: 10}),
			embedder, driver, logger,
		)

		docPath = filepath.Join(GinkgoT().TempDir(), "policy.txt")
		content := "First paragraph about data retention.\n\nSecond paragraph about web scraping rules.\n\nThird paragraph about acceptable use."
		Expect(os.WriteFile(docPath, []byte(content), 0644)).To(Succeed())
	})

	It("should reset the store before writing", func() {
		_, err := ingestor.Ingest(context.Background(), docPath, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(driver.ResetCalls).To(Equal(1))
	})

	It("should write one document per chunk and return the count", func() {
		count, err := ingestor.Ingest(context.Background(), docPath, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(count).To(BeNumerically(">", 1))
		Expect(driver.Documents).To(HaveLen(count))

		for i, doc := range driver.Documents {
			Expect(doc.Source).To(Equal("policy.txt"))
			Expect(doc.Seq).To(Equal(i))
			Expect(doc.ID).NotTo(BeEmpty())
			Expect(doc.Text).NotTo(BeEmpty())
			Expect(doc.Embedding).NotTo(BeEmpty())
		}
	})

	It("should report progress for every chunk", func() {
		var calls [][2]int
		count, err := ingestor.Ingest(context.Background(), docPath, func(done, total int) {
			calls = append(calls, [2]int{done, total})
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(calls).To(HaveLen(count))
		Expect(calls[len(calls)-1]).To(Equal([2]int{count, count}))
	})

	It("should fail on a missing document after clearing the store", func() {
		_, err := ingestor.Ingest(context.Background(), "/nonexistent/policy.txt", nil)
		Expect(err).To(HaveOccurred())
		Expect(driver.ResetCalls).To(Equal(1))
		Expect(driver.Documents).To(BeEmpty())
	})

	It("should abort when embedding fails and leave no mixed store", func() {
		Expect(driver.Add(context.Background(), []vector.Document{
			{ID: "stale:0", Text: "stale chunk"},
		})).To(Succeed())

		embedder.FailOn = "First paragraph about data retention."
		_, err := ingestor.Ingest(context.Background(), docPath, nil)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("embedding chunk"))

		// The stale document was cleared by Reset and nothing new landed.
		Expect(driver.Documents).To(BeEmpty())
	})

	It("should return zero for an empty document", func() {
		empty := filepath.Join(GinkgoT().TempDir(), "empty.txt")
		Expect(os.WriteFile(empty, []byte(""), 0644)).To(Succeed())

		count, err := ingestor.Ingest(context.Background(), empty, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(count).To(Equal(0))
	})
})

var _ = Describe("Retriever", func() {
	var (
		logger   *zap.Logger
		embedder *testutils.MockEmbedder
		driver   *testutils.MockVectorDriver
	)

	BeforeEach(func() {
		logger = zap.NewNop()
		embedder = testutils.NewMockEmbedder()
		driver = testutils.NewMockVectorDriver()
	})

	It("should default to three results", func() {
		driver.Results = []vector.QueryResult{
			{Document: vector.Document{ID: "a"}, Score: 0.1},
			{Document: vector.Document{ID: "b"}, Score: 0.2},
			{Document: vector.Document{ID: "c"}, Score: 0.3},
			{Document: vector.Document{ID: "d"}, Score: 0.4},
		}

		retriever := rag.NewRetriever(embedder, driver, 0, logger)
		results, err := retriever.Retrieve(context.Background(), "what is the policy?")
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(rag.DefaultTopK))
	})

	It("should return results in ascending distance order", func() {
		driver.Results = []vector.QueryResult{
			{Document: vector.Document{ID: "a"}, Score: 0.1},
			{Document: vector.Document{ID: "b"}, Score: 0.2},
			{Document: vector.Document{ID: "c"}, Score: 0.3},
		}

		retriever := rag.NewRetriever(embedder, driver, 3, logger)
		results, err := retriever.Retrieve(context.Background(), "question")
		Expect(err).NotTo(HaveOccurred())
		for i := 1; i < len(results); i++ {
			Expect(results[i].Score).To(BeNumerically(">=", results[i-1].Score))
		}
	})

	It("should propagate embedding failures", func() {
		embedder.FailOn = "bad question"
		retriever := rag.NewRetriever(embedder, driver, 3, logger)
		_, err := retriever.Retrieve(context.Background(), "bad question")
		Expect(err).To(HaveOccurred())
	})

	It("should propagate store query failures", func() {
		driver.FailQuery = true
		retriever := rag.NewRetriever(embedder, driver, 3, logger)
		_, err := retriever.Retrieve(context.Background(), "question")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Composer", func() {
	var (
		logger    *zap.Logger
		embedder  *testutils.MockEmbedder
		driver    *testutils.MockVectorDriver
		generator *testutils.MockGenerator
		composer  *rag.Composer
	)

	BeforeEach(func() {
		logger = zap.NewNop()
		embedder = testutils.NewMockEmbedder()
		driver = testutils.NewMockVectorDriver()
		driver.Results = []vector.QueryResult{
			{Document: vector.Document{ID: "policy.txt:0", Text: "Web scraping is strictly prohibited.", Source: "policy.txt", Seq: 0}, Score: 0.1},
			{Document: vector.Document{ID: "policy.txt:3", Text: "Support chat data is retained for 90 days.", Source: "policy.txt", Seq: 3}, Score: 0.2},
		}
		generator = testutils.NewMockGenerator("Web scraping is prohibited under the acceptable use policy.")
		composer = rag.NewComposer(
			rag.NewRetriever(embedder, driver, 3, logger),
			generator, logger,
		)
	})

	It("should include every retrieved chunk in the prompt context", func() {
		_, err := composer.Answer(context.Background(), "What is the policy on web scraping?")
		Expect(err).NotTo(HaveOccurred())
		Expect(generator.Prompts).To(HaveLen(1))

		p := generator.Prompts[0]
		Expect(p).To(ContainSubstring("Web scraping is strictly prohibited."))
		Expect(p).To(ContainSubstring("Support chat data is retained for 90 days."))
		Expect(p).To(ContainSubstring(rag.ContextSeparator))
	})

	It("should include the question, the rules, and the refusal instruction", func() {
		_, err := composer.Answer(context.Background(), "What is the policy on web scraping?")
		Expect(err).NotTo(HaveOccurred())

		p := generator.Prompts[0]
		Expect(p).To(ContainSubstring("USER QUESTION:"))
		Expect(p).To(ContainSubstring("What is the policy on web scraping?"))
		Expect(p).To(ContainSubstring("Use ONLY the provided context."))
		Expect(p).To(ContainSubstring(rag.RefusalSentence))
	})

	It("should keep context chunks in retrieval order", func() {
		_, err := composer.Answer(context.Background(), "question")
		Expect(err).NotTo(HaveOccurred())

		p := generator.Prompts[0]
		first := strings.Index(p, "Web scraping is strictly prohibited.")
		second := strings.Index(p, "Support chat data is retained for 90 days.")
		Expect(first).To(BeNumerically(">=", 0))
		Expect(second).To(BeNumerically(">", first))
	})

	It("should return the raw answer with the retrieval results", func() {
		record, err := composer.Answer(context.Background(), "What is the policy on web scraping?")
		Expect(err).NotTo(HaveOccurred())
		Expect(record.Answer).To(ContainSubstring("prohibited"))
		Expect(record.Answer).NotTo(ContainSubstring(rag.RefusalSentence))
		Expect(record.Results).To(HaveLen(2))
		Expect(record.Results[0].Source).To(Equal("policy.txt"))
	})

	It("should distinguish a refusal from a gateway error", func() {
		generator.Response = rag.RefusalSentence

		record, err := composer.Answer(context.Background(), "What is the phone number for the HR department?")
		Expect(err).NotTo(HaveOccurred())
		Expect(record.Refused()).To(BeTrue())
	})

	It("should not report refusal for a grounded answer", func() {
		record, err := composer.Answer(context.Background(), "What is the policy on web scraping?")
		Expect(err).NotTo(HaveOccurred())
		Expect(record.Refused()).To(BeFalse())
	})

	It("should propagate generation failures", func() {
		generator.Fail = true
		_, err := composer.Answer(context.Background(), "question")
		Expect(err).To(HaveOccurred())
	})

	It("should propagate retrieval failures without calling the generator", func() {
		driver.FailQuery = true
		_, err := composer.Answer(context.Background(), "question")
		Expect(err).To(HaveOccurred())
		Expect(generator.Prompts).To(BeEmpty())
	})
})
