package transform

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/joyrc/teleop_client/internal/models"
)

func TestLookupUnknownPair(t *testing.T) {
	buffer := NewBuffer()

	_, err := buffer.Lookup("map", "base_link")
	if err == nil {
		t.Fatal("lookup before any update should fail")
	}
}

func TestUpdateThenLookup(t *testing.T) {
	buffer := NewBuffer()
	buffer.Update(models.TransformUpdate{
		Parent:    "map",
		Child:     "base_link",
		Transform: models.Transform{Translation: r3.Vector{X: 1.0}, Rotation: models.IdentityQuaternion()},
		TimeStamp: 100,
	})

	tf, err := buffer.Lookup("map", "base_link")
	if err != nil {
		t.Fatalf("lookup after update failed: %v", err)
	}
	if tf.Translation.X != 1.0 {
		t.Fatalf("expected stored translation, got %+v", tf.Translation)
	}
}

func TestOutOfOrderUpdateDropped(t *testing.T) {
	buffer := NewBuffer()
	buffer.Update(models.TransformUpdate{
		Parent:    "map",
		Child:     "base_link",
		Transform: models.Transform{Translation: r3.Vector{X: 2.0}},
		TimeStamp: 200,
	})
	buffer.Update(models.TransformUpdate{
		Parent:    "map",
		Child:     "base_link",
		Transform: models.Transform{Translation: r3.Vector{X: 1.0}},
		TimeStamp: 100,
	})

	tf, err := buffer.Lookup("map", "base_link")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if tf.Translation.X != 2.0 {
		t.Fatalf("stale update should not replace a newer one, got %+v", tf.Translation)
	}
}

func TestLookupDirectional(t *testing.T) {
	buffer := NewBuffer()
	buffer.Update(models.TransformUpdate{Parent: "map", Child: "base_link"})

	if _, err := buffer.Lookup("base_link", "map"); err == nil {
		t.Fatal("reverse frame pair should not resolve")
	}
}

func TestApplyTranslation(t *testing.T) {
	tf := models.Transform{
		Translation: r3.Vector{X: 1.0, Y: 2.0, Z: 3.0},
		Rotation:    models.IdentityQuaternion(),
	}

	pose := Apply(tf, models.Pose{Position: r3.Vector{X: 0.5}, Orientation: models.IdentityQuaternion()})

	want := r3.Vector{X: 1.5, Y: 2.0, Z: 3.0}
	if math.Abs(pose.Position.X-want.X) > 1e-9 || math.Abs(pose.Position.Y-want.Y) > 1e-9 || math.Abs(pose.Position.Z-want.Z) > 1e-9 {
		t.Fatalf("expected %+v, got %+v", want, pose.Position)
	}
}

func TestApplyRotation(t *testing.T) {
	// 90 degrees about z
	halfYaw := math.Pi / 4
	tf := models.Transform{
		Rotation: models.Quaternion{Z: math.Sin(halfYaw), W: math.Cos(halfYaw)},
	}

	pose := Apply(tf, models.Pose{Position: r3.Vector{X: 1.0}, Orientation: models.IdentityQuaternion()})

	if math.Abs(pose.Position.X) > 1e-9 || math.Abs(pose.Position.Y-1.0) > 1e-9 {
		t.Fatalf("rotating (1,0,0) 90deg about z should give (0,1,0), got %+v", pose.Position)
	}
	if math.Abs(pose.Orientation.Z-math.Sin(halfYaw)) > 1e-9 || math.Abs(pose.Orientation.W-math.Cos(halfYaw)) > 1e-9 {
		t.Fatalf("identity orientation should take on the transform rotation, got %+v", pose.Orientation)
	}
}
