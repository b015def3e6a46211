package api_test

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/neuradynamics/pragya/api"
	"github.com/neuradynamics/pragya/pkg/eval"
	"github.com/neuradynamics/pragya/pkg/rag"
	testutils "github.com/neuradynamics/pragya/pkg/utils/test"
	"github.com/neuradynamics/pragya/pkg/vector"
)

func TestAPI(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "API Suite")
}

var _ = Describe("Server", func() {
	var (
		server    *api.Server
		embedder  *testutils.MockEmbedder
		driver    *testutils.MockVectorDriver
		generator *testutils.MockGenerator
	)

	BeforeEach(func() {
		logger := zap.NewNop()
		embedder = testutils.NewMockEmbedder()
		driver = testutils.NewMockVectorDriver()
		driver.Results = []vector.QueryResult{
			{Document: vector.Document{ID: "policy.txt:0", Text: "Web scraping is strictly prohibited.", Source: "policy.txt", Seq: 0}, Score: 0.1},
			{Document: vector.Document{ID: "policy.txt:1", Text: "Support chat data is retained for 90 days.", Source: "policy.txt", Seq: 1}, Score: 0.2},
		}
		generator = testutils.NewMockGenerator("Web scraping is prohibited.")

		retriever := rag.NewRetriever(embedder, driver, 3, logger)
		composer := rag.NewComposer(retriever, generator, logger)

		server = api.NewServer(api.Config{
			ListenAddr: ":0",
			Retriever:  retriever,
			Composer:   composer,
			Harness:    eval.NewHarness(composer, logger),
		}, nil, logger)
	})

	Describe("GET /ping", func() {
		It("should return pong", func() {
			req := httptest.NewRequest("GET", "/ping", nil)
			resp, err := server.App().Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(200))

			body, _ := io.ReadAll(resp.Body)
			Expect(strings.TrimSpace(string(body))).To(Equal(`"pong"`))
		})
	})

	Describe("GET /v1/search", func() {
		It("should require a query parameter", func() {
			req := httptest.NewRequest("GET", "/v1/search", nil)
			resp, err := server.App().Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(400))
		})

		It("should return retrieved chunks", func() {
			req := httptest.NewRequest("GET", "/v1/search?query=web+scraping", nil)
			resp, err := server.App().Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(200))

			var out api.SearchResponse
			Expect(json.NewDecoder(resp.Body).Decode(&out)).To(Succeed())
			Expect(out.Count).To(Equal(2))
			Expect(out.Results[0].Text).To(ContainSubstring("Web scraping"))
			Expect(out.Results[0].Source).To(Equal("policy.txt"))
		})

		It("should narrow results to top_k", func() {
			req := httptest.NewRequest("GET", "/v1/search?query=scraping&top_k=1", nil)
			resp, err := server.App().Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(200))

			var out api.SearchResponse
			Expect(json.NewDecoder(resp.Body).Decode(&out)).To(Succeed())
			Expect(out.Count).To(Equal(1))
		})

		It("should reject a non-positive top_k", func() {
			req := httptest.NewRequest("GET", "/v1/search?query=scraping&top_k=0", nil)
			resp, err := server.App().Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(400))
		})

		It("should surface retrieval failures as 500", func() {
			driver.FailQuery = true

			req := httptest.NewRequest("GET", "/v1/search?query=scraping", nil)
			resp, err := server.App().Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(500))
		})
	})

	Describe("POST /v1/ask", func() {
		It("should require a question", func() {
			req := httptest.NewRequest("POST", "/v1/ask", strings.NewReader(`{}`))
			req.Header.Set("Content-Type", "application/json")
			resp, err := server.App().Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(400))
		})

		It("should return a grounded answer with sources", func() {
			body := `{"question": "What is the policy on web scraping?"}`
			req := httptest.NewRequest("POST", "/v1/ask", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := server.App().Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(200))

			var out api.AskResponse
			Expect(json.NewDecoder(resp.Body).Decode(&out)).To(Succeed())
			Expect(out.Answer).To(ContainSubstring("prohibited"))
			Expect(out.Refused).To(BeFalse())
			Expect(out.Sources).To(HaveLen(2))
		})

		It("should flag refusals", func() {
			generator.Response = rag.RefusalSentence

			body := `{"question": "What is the phone number for the HR department?"}`
			req := httptest.NewRequest("POST", "/v1/ask", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := server.App().Test(req)
			Expect(err).NotTo(HaveOccurred())

			var out api.AskResponse
			Expect(json.NewDecoder(resp.Body).Decode(&out)).To(Succeed())
			Expect(out.Refused).To(BeTrue())
			Expect(out.Answer).To(Equal(rag.RefusalSentence))
		})

		It("should surface generation failures as 500", func() {
			generator.Fail = true

			body := `{"question": "anything"}`
			req := httptest.NewRequest("POST", "/v1/ask", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := server.App().Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(500))
		})
	})

	Describe("POST /v1/evaluate", func() {
		It("should run the default battery and return one row per case", func() {
			req := httptest.NewRequest("POST", "/v1/evaluate", nil)
			resp, err := server.App().Test(req, -1)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(200))

			var out api.EvaluateResponse
			Expect(json.NewDecoder(resp.Body).Decode(&out)).To(Succeed())
			Expect(out.Rows).To(HaveLen(len(eval.DefaultCases())))
		})

		It("should return 503 when no harness is configured", func() {
			logger := zap.NewNop()
			bare := api.NewServer(api.Config{ListenAddr: ":0"}, nil, logger)

			req := httptest.NewRequest("POST", "/v1/evaluate", nil)
			resp, err := bare.App().Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(503))
		})
	})
})
