package dungeon

import (
	"context"
	"errors"
	"testing"

	"github.com/matzehuels/dungeonforge/pkg/geom"
)

func builtCrypt(t *testing.T) (map[string]*Room, *Builder) {
	t.Helper()
	b := NewBuilder(Options{Rand: NewRand(17)})
	res, err := b.Generate(context.Background(), cryptLevel())
	if err != nil {
		t.Fatal(err)
	}
	return res.Rooms, b
}

func TestCheckInvariantsDetectsDamage(t *testing.T) {
	tests := []struct {
		name    string
		damage  func(rooms map[string]*Room)
		wantErr error
	}{
		{
			name: "Overlap",
			damage: func(rooms map[string]*Room) {
				rooms["vault"].Bounds = rooms["in"].Bounds
			},
			wantErr: ErrOverlap,
		},
		{
			name: "MissingRoom",
			damage: func(rooms map[string]*Room) {
				delete(rooms, "boss")
			},
			wantErr: ErrIncomplete,
		},
		{
			name: "OrphanRoom",
			damage: func(rooms map[string]*Room) {
				stray := *rooms["vault"]
				stray.ID = "stray"
				stray.Bounds = stray.Bounds.Translate(geom.Point{X: 1000})
				rooms["stray"] = &stray
			},
			wantErr: ErrIncomplete,
		},
		{
			name: "Disconnected",
			damage: func(rooms map[string]*Room) {
				for i := range rooms["vault"].Doorways {
					rooms["vault"].Doorways[i].State = geom.Unconnected
				}
			},
			wantErr: ErrDisconnected,
		},
		{
			name: "Shifted",
			damage: func(rooms map[string]*Room) {
				rooms["vault"].Bounds = rooms["vault"].Bounds.Translate(geom.Point{X: 500, Y: 500})
			},
			wantErr: ErrDisconnected,
		},
		{
			name: "ExtraConnection",
			damage: func(rooms map[string]*Room) {
				for i := range rooms["vault"].Doorways {
					rooms["vault"].Doorways[i].State = geom.Connected
				}
			},
			wantErr: ErrDisconnected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rooms, _ := builtCrypt(t)
			g := &cryptLevel().Graphs[0]
			if err := CheckInvariants(rooms, g); err != nil {
				t.Fatalf("fresh layout invalid: %v", err)
			}

			tt.damage(rooms)
			if err := CheckInvariants(rooms, g); !errors.Is(err, tt.wantErr) {
				t.Errorf("CheckInvariants() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRoomHelpers(t *testing.T) {
	rooms, _ := builtCrypt(t)
	vault := rooms["vault"]

	connected := vault.ConnectedDoorways()
	if len(connected) != 1 {
		t.Fatalf("vault has %d connected doorways, want 1", len(connected))
	}
	if got, want := vault.DoorwayWorldPosition(connected[0]), vault.Doorways[connected[0]].Position.Add(vault.Offset()); got != want {
		t.Errorf("DoorwayWorldPosition() = %s, want %s", got, want)
	}
	if !vault.Bounds.Contains(vault.DoorwayWorldPosition(connected[0])) {
		t.Error("doorway should lie inside the room")
	}
	if len(vault.SpawnPositions) != 1 {
		t.Errorf("spawn positions = %v, want the template's", vault.SpawnPositions)
	}
}
