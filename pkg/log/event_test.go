package log

import "testing"

func TestDirectionString(t *testing.T) {
	tests := []struct {
		dir  Direction
		want string
	}{
		{DirectionIn, "IN"},
		{DirectionOut, "OUT"},
		{Direction(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		got := tt.dir.String()
		if got != tt.want {
			t.Errorf("Direction(%d).String() = %q, want %q", tt.dir, got, tt.want)
		}
	}
}

func TestLayerString(t *testing.T) {
	tests := []struct {
		layer Layer
		want  string
	}{
		{LayerTransport, "TRANSPORT"},
		{LayerProtocol, "PROTOCOL"},
		{LayerDiscovery, "DISCOVERY"},
		{Layer(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		got := tt.layer.String()
		if got != tt.want {
			t.Errorf("Layer(%d).String() = %q, want %q", tt.layer, got, tt.want)
		}
	}
}

func TestCategoryString(t *testing.T) {
	tests := []struct {
		cat  Category
		want string
	}{
		{CategoryMessage, "MESSAGE"},
		{CategoryState, "STATE"},
		{CategoryError, "ERROR"},
		{Category(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		got := tt.cat.String()
		if got != tt.want {
			t.Errorf("Category(%d).String() = %q, want %q", tt.cat, got, tt.want)
		}
	}
}

func TestDiscoveryStageString(t *testing.T) {
	tests := []struct {
		stage DiscoveryStage
		want  string
	}{
		{StageSearch, "SEARCH"},
		{StageResponse, "RESPONSE"},
		{StageDescriptor, "DESCRIPTOR"},
		{StageCardAdded, "CARD_ADDED"},
		{StageRollback, "ROLLBACK"},
		{DiscoveryStage(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		got := tt.stage.String()
		if got != tt.want {
			t.Errorf("DiscoveryStage(%d).String() = %q, want %q", tt.stage, got, tt.want)
		}
	}
}
