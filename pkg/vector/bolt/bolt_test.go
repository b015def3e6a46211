package bolt_test

import (
	"context"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/neuradynamics/pragya/pkg/vector"
	"github.com/neuradynamics/pragya/pkg/vector/bolt"
)

func TestBolt(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Bolt Suite")
}

var _ = Describe("BoltDriver", func() {
	var (
		logger *zap.Logger
		dbPath string
	)

	BeforeEach(func() {
		logger = zap.NewNop()
		dbPath = filepath.Join(GinkgoT().TempDir(), "test.db")
	})

	Describe("NewBoltDriver", func() {
		It("should return an error when DBPath is empty", func() {
			_, err := bolt.NewBoltDriver(bolt.Config{DBPath: ""}, logger)
			Expect(err).To(HaveOccurred())
		})

		It("should create a driver backed by a new file", func() {
			driver, err := bolt.NewBoltDriver(bolt.Config{DBPath: dbPath}, logger)
			Expect(err).NotTo(HaveOccurred())
			Expect(driver).NotTo(BeNil())
			Expect(driver.Close()).To(Succeed())
		})
	})

	Describe("operations", func() {
		var driver *bolt.BoltDriver

		BeforeEach(func() {
			var err error
			driver, err = bolt.NewBoltDriver(bolt.Config{DBPath: dbPath}, logger)
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			Expect(driver.Close()).To(Succeed())
		})

		It("should return no results on an empty store", func() {
			results, err := driver.Query(context.Background(), []float32{1, 0, 0}, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(BeEmpty())
		})

		It("should add documents and count them", func() {
			docs := []vector.Document{
				{ID: "chunk-0", Text: "a", Source: "policy.txt", Seq: 0, Embedding: []float32{1, 0, 0}},
				{ID: "chunk-1", Text: "b", Source: "policy.txt", Seq: 1, Embedding: []float32{0, 1, 0}},
			}
			Expect(driver.Add(context.Background(), docs)).To(Succeed())

			count, err := driver.Count(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(2))
		})

		It("should order results ascending by cosine distance", func() {
			docs := []vector.Document{
				{ID: "chunk-0", Text: "identical", Source: "policy.txt", Seq: 0, Embedding: []float32{1, 0, 0}},
				{ID: "chunk-1", Text: "orthogonal", Source: "policy.txt", Seq: 1, Embedding: []float32{0, 1, 0}},
				{ID: "chunk-2", Text: "close", Source: "policy.txt", Seq: 2, Embedding: []float32{0.9, 0.1, 0}},
			}
			Expect(driver.Add(context.Background(), docs)).To(Succeed())

			results, err := driver.Query(context.Background(), []float32{1, 0, 0}, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(3))
			Expect(results[0].ID).To(Equal("chunk-0"))
			Expect(results[0].Score).To(BeNumerically("~", 0, 1e-5))
			Expect(results[1].ID).To(Equal("chunk-2"))
			Expect(results[2].ID).To(Equal("chunk-1"))
			Expect(results[2].Score).To(BeNumerically("~", 1, 1e-5))
		})

		It("should limit results to topK", func() {
			docs := []vector.Document{
				{ID: "chunk-0", Embedding: []float32{1, 0, 0}},
				{ID: "chunk-1", Embedding: []float32{0, 1, 0}},
				{ID: "chunk-2", Embedding: []float32{0, 0, 1}},
			}
			Expect(driver.Add(context.Background(), docs)).To(Succeed())

			results, err := driver.Query(context.Background(), []float32{1, 0, 0}, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(2))
		})

		It("should update an existing document instead of duplicating it", func() {
			Expect(driver.Add(context.Background(), []vector.Document{
				{ID: "chunk-0", Text: "original", Embedding: []float32{1, 0, 0}},
			})).To(Succeed())
			Expect(driver.Add(context.Background(), []vector.Document{
				{ID: "chunk-0", Text: "updated", Embedding: []float32{0, 1, 0}},
			})).To(Succeed())

			count, err := driver.Count(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(1))

			results, err := driver.Query(context.Background(), []float32{0, 1, 0}, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(results[0].Text).To(Equal("updated"))
		})

		It("should empty the store on Reset and accept new adds", func() {
			Expect(driver.Add(context.Background(), []vector.Document{
				{ID: "chunk-0", Text: "old", Embedding: []float32{1, 0, 0}},
			})).To(Succeed())

			Expect(driver.Reset(context.Background())).To(Succeed())

			count, err := driver.Count(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(0))

			Expect(driver.Add(context.Background(), []vector.Document{
				{ID: "chunk-0", Text: "new", Embedding: []float32{0, 1, 0}},
			})).To(Succeed())

			results, err := driver.Query(context.Background(), []float32{0, 1, 0}, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))
			Expect(results[0].Text).To(Equal("new"))
		})

		It("should persist documents across reopen", func() {
			Expect(driver.Add(context.Background(), []vector.Document{
				{ID: "chunk-0", Text: "persisted", Source: "policy.txt", Seq: 0, Embedding: []float32{1, 0, 0}},
			})).To(Succeed())
			Expect(driver.Close()).To(Succeed())

			reopened, err := bolt.NewBoltDriver(bolt.Config{DBPath: dbPath}, logger)
			Expect(err).NotTo(HaveOccurred())
			defer func() {
				// AfterEach closes the original handle; swap it in
				driver = reopened
			}()

			count, err := reopened.Count(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(1))

			results, err := reopened.Query(context.Background(), []float32{1, 0, 0}, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(results[0].Text).To(Equal("persisted"))
		})
	})
})
