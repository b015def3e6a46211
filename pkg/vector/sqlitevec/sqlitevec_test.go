package sqlitevec_test

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/neuradynamics/pragya/pkg/vector"
	"github.com/neuradynamics/pragya/pkg/vector/sqlitevec"
)

func TestSQLiteVec(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "SQLiteVec Suite")
}

var _ = Describe("SQLiteVecDriver", func() {
	var logger *zap.Logger

	BeforeEach(func() {
		logger = zap.NewNop()
	})

	Describe("NewSQLiteVecDriver", func() {
		It("should return an error when DBPath is empty", func() {
			_, err := sqlitevec.NewSQLiteVecDriver(sqlitevec.Config{DBPath: ""}, logger)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("database path is required"))
		})

		It("should create a driver with an in-memory database", func() {
			driver, err := sqlitevec.NewSQLiteVecDriver(sqlitevec.Config{
				DBPath:     ":memory:",
				Dimensions: 4,
			}, logger)
			Expect(err).NotTo(HaveOccurred())
			Expect(driver).NotTo(BeNil())
			Expect(driver.Close()).To(Succeed())
		})

		It("should error when dimension not specified", func() {
			_, err := sqlitevec.NewSQLiteVecDriver(sqlitevec.Config{
				DBPath: ":memory:",
			}, logger)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("operations", func() {
		var driver *sqlitevec.SQLiteVecDriver

		BeforeEach(func() {
			var err error
			driver, err = sqlitevec.NewSQLiteVecDriver(sqlitevec.Config{
				DBPath:     ":memory:",
				Dimensions: 4,
			}, logger)
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			Expect(driver.Close()).To(Succeed())
		})

		It("should do nothing when given empty docs", func() {
			err := driver.Add(context.Background(), []vector.Document{})
			Expect(err).NotTo(HaveOccurred())

			count, err := driver.Count(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(0))
		})

		It("should add documents and count them", func() {
			docs := []vector.Document{
				{ID: "chunk-0", Text: "first", Source: "policy.txt", Seq: 0, Embedding: []float32{0.1, 0.1, 0.1, 0.1}},
				{ID: "chunk-1", Text: "second", Source: "policy.txt", Seq: 1, Embedding: []float32{0.2, 0.2, 0.2, 0.2}},
				{ID: "chunk-2", Text: "third", Source: "policy.txt", Seq: 2, Embedding: []float32{0.3, 0.3, 0.3, 0.3}},
			}

			err := driver.Add(context.Background(), docs)
			Expect(err).NotTo(HaveOccurred())

			count, err := driver.Count(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(3))
		})

		It("should update an existing document instead of duplicating it", func() {
			docs := []vector.Document{
				{ID: "chunk-0", Text: "original", Source: "policy.txt", Seq: 0, Embedding: []float32{0.1, 0.1, 0.1, 0.1}},
			}
			Expect(driver.Add(context.Background(), docs)).To(Succeed())

			updated := []vector.Document{
				{ID: "chunk-0", Text: "updated", Source: "policy.txt", Seq: 0, Embedding: []float32{0.9, 0.9, 0.9, 0.9}},
			}
			Expect(driver.Add(context.Background(), updated)).To(Succeed())

			count, err := driver.Count(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(1))

			results, err := driver.Query(context.Background(), []float32{0.9, 0.9, 0.9, 0.9}, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))
			Expect(results[0].Text).To(Equal("updated"))
		})

		It("should return the closest documents first", func() {
			docs := []vector.Document{
				{ID: "chunk-0", Text: "near", Source: "policy.txt", Seq: 0, Embedding: []float32{1, 0, 0, 0}},
				{ID: "chunk-1", Text: "far", Source: "policy.txt", Seq: 1, Embedding: []float32{0, 1, 0, 0}},
				{ID: "chunk-2", Text: "middle", Source: "policy.txt", Seq: 2, Embedding: []float32{0.9, 0.1, 0, 0}},
			}
			Expect(driver.Add(context.Background(), docs)).To(Succeed())

			results, err := driver.Query(context.Background(), []float32{1, 0, 0, 0}, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(3))
			Expect(results[0].ID).To(Equal("chunk-0"))
			Expect(results[1].ID).To(Equal("chunk-2"))
			Expect(results[2].ID).To(Equal("chunk-1"))

			for i := 1; i < len(results); i++ {
				Expect(results[i].Score).To(BeNumerically(">=", results[i-1].Score))
			}
		})

		It("should limit results to topK", func() {
			docs := []vector.Document{
				{ID: "chunk-0", Text: "a", Source: "policy.txt", Seq: 0, Embedding: []float32{1, 0, 0, 0}},
				{ID: "chunk-1", Text: "b", Source: "policy.txt", Seq: 1, Embedding: []float32{0, 1, 0, 0}},
				{ID: "chunk-2", Text: "c", Source: "policy.txt", Seq: 2, Embedding: []float32{0, 0, 1, 0}},
			}
			Expect(driver.Add(context.Background(), docs)).To(Succeed())

			results, err := driver.Query(context.Background(), []float32{1, 0, 0, 0}, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(2))
		})

		It("should carry text, source, and seq through query results", func() {
			docs := []vector.Document{
				{ID: "chunk-7", Text: "remote work policy", Source: "policy.txt", Seq: 7, Embedding: []float32{0.5, 0.5, 0, 0}},
			}
			Expect(driver.Add(context.Background(), docs)).To(Succeed())

			results, err := driver.Query(context.Background(), []float32{0.5, 0.5, 0, 0}, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))
			Expect(results[0].Text).To(Equal("remote work policy"))
			Expect(results[0].Source).To(Equal("policy.txt"))
			Expect(results[0].Seq).To(Equal(7))
		})

		It("should empty the store on Reset", func() {
			docs := []vector.Document{
				{ID: "chunk-0", Text: "a", Source: "policy.txt", Seq: 0, Embedding: []float32{1, 0, 0, 0}},
				{ID: "chunk-1", Text: "b", Source: "policy.txt", Seq: 1, Embedding: []float32{0, 1, 0, 0}},
			}
			Expect(driver.Add(context.Background(), docs)).To(Succeed())

			Expect(driver.Reset(context.Background())).To(Succeed())

			count, err := driver.Count(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(0))

			results, err := driver.Query(context.Background(), []float32{1, 0, 0, 0}, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(BeEmpty())
		})

		It("should accept new documents after Reset", func() {
			Expect(driver.Add(context.Background(), []vector.Document{
				{ID: "chunk-0", Text: "old", Source: "policy.txt", Seq: 0, Embedding: []float32{1, 0, 0, 0}},
			})).To(Succeed())
			Expect(driver.Reset(context.Background())).To(Succeed())

			Expect(driver.Add(context.Background(), []vector.Document{
				{ID: "chunk-0", Text: "new", Source: "policy.txt", Seq: 0, Embedding: []float32{0, 1, 0, 0}},
			})).To(Succeed())

			results, err := driver.Query(context.Background(), []float32{0, 1, 0, 0}, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))
			Expect(results[0].Text).To(Equal("new"))
		})
	})
})
