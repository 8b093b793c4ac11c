package aggregate

import (
	"testing"

	"kafkaview/internal/cache"
	"kafkaview/internal/metadata"
)

func allowAll(metadata.ClusterID, metadata.TopicName, string) bool { return true }

func TestBuildGroupList_LiveGroupWithStoredOffsets(t *testing.T) {
	c := cache.New(noopWriter{})
	cluster := metadata.ClusterID("c1")

	must(t, c.Groups.Insert(cache.GroupsKey{Cluster: cluster, Group: "g1"}, metadata.Group{
		State:   "Stable",
		Members: []metadata.GroupMember{{ID: "m1"}},
	}))
	must(t, c.Offsets.Insert(cache.OffsetsKey{Cluster: cluster, Group: "g1", Topic: "t1"}, []int64{100, 200}))

	got := BuildGroupList(c, allowAll)

	info, ok := got[GroupKey{Cluster: cluster, Group: "g1"}]
	if !ok {
		t.Fatal("BuildGroupList() missing g1")
	}
	if info.State != "Stable" || info.Members != 1 || info.StoredOffsets != 1 {
		t.Errorf("g1 info = %+v, want {Stable 1 1}", info)
	}
}

func TestBuildGroupList_OffsetsOnlyGroup(t *testing.T) {
	c := cache.New(noopWriter{})
	cluster := metadata.ClusterID("c1")

	must(t, c.Offsets.Insert(cache.OffsetsKey{Cluster: cluster, Group: "ghost", Topic: "t1"}, []int64{1}))

	got := BuildGroupList(c, allowAll)

	info, ok := got[GroupKey{Cluster: cluster, Group: "ghost"}]
	if !ok {
		t.Fatal("BuildGroupList() missing ghost group")
	}
	if info.State != "offsets only" || info.StoredOffsets != 1 {
		t.Errorf("ghost info = %+v, want {\"offsets only\" 0 1}", info)
	}
}

func TestBuildGroupList_FilterExcludesGroup(t *testing.T) {
	c := cache.New(noopWriter{})
	cluster := metadata.ClusterID("c1")

	must(t, c.Groups.Insert(cache.GroupsKey{Cluster: cluster, Group: "g1"}, metadata.Group{State: "Stable"}))
	must(t, c.Groups.Insert(cache.GroupsKey{Cluster: cluster, Group: "g2"}, metadata.Group{State: "Stable"}))

	got := BuildGroupList(c, func(_ metadata.ClusterID, _ metadata.TopicName, group string) bool {
		return group == "g1"
	})

	if _, ok := got[GroupKey{Cluster: cluster, Group: "g1"}]; !ok {
		t.Error("BuildGroupList() missing g1")
	}
	if _, ok := got[GroupKey{Cluster: cluster, Group: "g2"}]; ok {
		t.Error("BuildGroupList() should have excluded g2")
	}
}
