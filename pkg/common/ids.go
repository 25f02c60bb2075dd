// Package common holds small helpers shared across the service.
package common

import (
	"os"
	"strconv"
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	idNodeOnce sync.Once
	idNode     *snowflake.Node
)

// NextID returns a time-ordered unique int64 suitable for primary keys.
// The node id comes from SALESAPI_NODE_ID so multiple instances never
// collide; it defaults to 1 for single-node deployments.
func NextID() int64 {
	idNodeOnce.Do(func() {
		nodeID := int64(1)
		if v := os.Getenv("SALESAPI_NODE_ID"); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n >= 0 && n < 1024 {
				nodeID = n
			}
		}
		node, err := snowflake.NewNode(nodeID)
		if err != nil {
			panic(err)
		}
		idNode = node
	})
	return idNode.Generate().Int64()
}
