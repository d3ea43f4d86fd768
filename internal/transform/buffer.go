package transform

import (
	"fmt"
	"sync"

	"github.com/golang/geo/r3"
	"github.com/joyrc/teleop_client/internal/models"
	"gonum.org/v1/gonum/num/quat"
)

// Buffer caches the latest transform per frame pair. Updates arrive on the
// tf data channel goroutine while lookups come from the sample loop, so
// access is locked.
type Buffer struct {
	lock       sync.RWMutex
	transforms map[string]models.TransformUpdate
}

func NewBuffer() *Buffer {
	return &Buffer{
		transforms: make(map[string]models.TransformUpdate),
	}
}

func pairKey(target, source string) string {
	return target + "->" + source
}

// Update stores the newest transform for its frame pair. Older updates
// arriving out of order are dropped.
func (b *Buffer) Update(update models.TransformUpdate) {
	b.lock.Lock()
	defer b.lock.Unlock()

	key := pairKey(update.Parent, update.Child)
	current, ok := b.transforms[key]
	if ok && update.TimeStamp < current.TimeStamp {
		return
	}
	b.transforms[key] = update
}

// Lookup returns the latest known transform taking source-frame poses into
// the target frame, or an error when the pair has never been seen.
func (b *Buffer) Lookup(target, source string) (models.Transform, error) {
	b.lock.RLock()
	defer b.lock.RUnlock()

	update, ok := b.transforms[pairKey(target, source)]
	if !ok {
		return models.Transform{}, fmt.Errorf("no transform received for %s from %s", target, source)
	}
	return update.Transform, nil
}

// Apply transforms a pose: rotate by the transform's rotation, then offset
// by its translation. The orientation composes on the left.
func Apply(tf models.Transform, pose models.Pose) models.Pose {
	rotated := rotate(tf.Rotation, pose.Position)
	return models.Pose{
		Position: r3.Vector{
			X: rotated.X + tf.Translation.X,
			Y: rotated.Y + tf.Translation.Y,
			Z: rotated.Z + tf.Translation.Z,
		},
		Orientation: compose(tf.Rotation, pose.Orientation),
	}
}

func rotate(q models.Quaternion, v r3.Vector) r3.Vector {
	qn := quat.Number{Real: q.W, Imag: q.X, Jmag: q.Y, Kmag: q.Z}
	vn := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	rn := quat.Mul(quat.Mul(qn, vn), quat.Conj(qn))
	return r3.Vector{X: rn.Imag, Y: rn.Jmag, Z: rn.Kmag}
}

func compose(a, b models.Quaternion) models.Quaternion {
	an := quat.Number{Real: a.W, Imag: a.X, Jmag: a.Y, Kmag: a.Z}
	bn := quat.Number{Real: b.W, Imag: b.X, Jmag: b.Y, Kmag: b.Z}
	cn := quat.Mul(an, bn)
	return models.Quaternion{X: cn.Imag, Y: cn.Jmag, Z: cn.Kmag, W: cn.Real}
}
