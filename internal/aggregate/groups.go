package aggregate

import (
	"kafkaview/internal/cache"
	"kafkaview/internal/metadata"
)

// GroupInfo summarizes one consumer group for a cluster: its reported
// state, member count, and how many topics it has stored offsets for.
type GroupInfo struct {
	State         string
	Members       int
	StoredOffsets int
}

// GroupKey identifies a consumer group within a cluster.
type GroupKey struct {
	Cluster metadata.ClusterID
	Group   string
}

// BuildGroupList joins the groups cache with the offsets cache, grouped
// by (cluster, group): groups with no live membership (offsets only, no
// GroupCoordinator report yet) still appear with State "offsets only".
// filter is applied to (cluster, topic, group) the same way
// original_source/src/web_server/api.rs's build_group_list applies its
// filter_fn, so callers can scope the result to one cluster, one topic,
// or a free-text/regex group-name search without duplicating the join.
func BuildGroupList(c *cache.Cache, filter func(cluster metadata.ClusterID, topic metadata.TopicName, group string) bool) map[GroupKey]*GroupInfo {
	groups := make(map[GroupKey]*GroupInfo)

	c.Groups.LockIter(func(k cache.GroupsKey, g metadata.Group) bool {
		if filter(k.Cluster, "", k.Group) {
			groups[GroupKey{Cluster: k.Cluster, Group: k.Group}] = &GroupInfo{
				State:   g.State,
				Members: len(g.Members),
			}
		}
		return true
	})

	offsetKeys := c.Offsets.FilterCloneK(func(k cache.OffsetsKey) bool {
		return filter(k.Cluster, k.Topic, k.Group)
	})
	for _, k := range offsetKeys {
		gk := GroupKey{Cluster: k.Cluster, Group: k.Group}
		info, ok := groups[gk]
		if !ok {
			info = &GroupInfo{State: "offsets only"}
			groups[gk] = info
		}
		info.StoredOffsets++
	}

	return groups
}
