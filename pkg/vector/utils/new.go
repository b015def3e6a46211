// Package vectorutils is the vector utility package
package vectorutils

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/neuradynamics/pragya/pkg/vector"
	"github.com/neuradynamics/pragya/pkg/vector/bolt"
	"github.com/neuradynamics/pragya/pkg/vector/qdrant"
	"github.com/neuradynamics/pragya/pkg/vector/sqlitevec"
)

type NewVectorDriverOpts struct {
	ProviderType string

	// DBPath is the local database path, used by file-backed providers.
	DBPath string

	// TargetURL is the remote address, used by server-backed providers.
	TargetURL string

	Dimensions uint
	Logger     *zap.Logger
}

func NewVectorDriver(ctx context.Context, o *NewVectorDriverOpts) (vector.Driver, error) {
	switch o.ProviderType {
	case "sqlite":
		return sqlitevec.NewSQLiteVecDriver(sqlitevec.Config{
			DBPath:     o.DBPath,
			Dimensions: o.Dimensions,
		}, o.Logger)
	case "bolt":
		return bolt.NewBoltDriver(bolt.Config{
			DBPath: o.DBPath,
		}, o.Logger)
	case "qdrant":
		return qdrant.NewQdrantDriver(ctx, qdrant.Config{
			Target:     o.TargetURL,
			Dimensions: o.Dimensions,
		}, o.Logger)
	default:
		return nil, fmt.Errorf("unsupported vector store provider: %s", o.ProviderType)
	}
}
