package algorithms

import (
	"testing"
)

func TestDegreeCentrality_Star(t *testing.T) {
	sg := mustSubgraph(t, e("猫", "好き", 2), e("猫", "散歩", 1))
	c := DegreeCentrality(sg)

	want := map[string]float64{"猫": 1.0, "好き": 0.5, "散歩": 0.5}
	for w, v := range want {
		if c[w] != v {
			t.Errorf("centrality(%s) = %v, want %v", w, c[w], v)
		}
	}
}

func TestDegreeCentrality_Range(t *testing.T) {
	sg := twoTriangles(t)
	for w, v := range DegreeCentrality(sg) {
		if v < 0 || v > 1 {
			t.Errorf("centrality(%s) = %v outside [0, 1]", w, v)
		}
	}
}

func TestDegreeCentrality_Pair(t *testing.T) {
	sg := mustSubgraph(t, e("a", "b", 5))
	c := DegreeCentrality(sg)
	if c["a"] != 1 || c["b"] != 1 {
		t.Errorf("Connected pair should have centrality 1, got %v", c)
	}
}
