package qdrant_test

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/neuradynamics/pragya/pkg/vector/qdrant"
)

func TestQdrant(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Qdrant Suite")
}

var _ = Describe("NewQdrantDriver", func() {
	var logger *zap.Logger

	BeforeEach(func() {
		logger = zap.NewNop()
	})

	It("should return an error when target is empty", func() {
		_, err := qdrant.NewQdrantDriver(context.Background(), qdrant.Config{
			Dimensions: 4,
		}, logger)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("target is required"))
	})

	It("should return an error when dimensions are zero", func() {
		_, err := qdrant.NewQdrantDriver(context.Background(), qdrant.Config{
			Target: "localhost:6334",
		}, logger)
		Expect(err).To(HaveOccurred())
	})

	It("should reject a target without a port", func() {
		_, err := qdrant.NewQdrantDriver(context.Background(), qdrant.Config{
			Target:     "localhost",
			Dimensions: 4,
		}, logger)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("invalid qdrant target"))
	})

	It("should reject a non-numeric port", func() {
		_, err := qdrant.NewQdrantDriver(context.Background(), qdrant.Config{
			Target:     "localhost:grpc",
			Dimensions: 4,
		}, logger)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("invalid qdrant port"))
	})
})
