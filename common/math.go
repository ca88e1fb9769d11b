package common

import (
	"math"

	"github.com/jakecoffman/cp"
)

const epsilon = 1e-8

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

func RadiansToDegrees(r float64) float64 {
	return r * 180 / math.Pi
}

// Vec3 is a world-space position or direction. Z is the vertical axis; X and
// Y form the ground plane.
type Vec3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// FromPlanar lifts a ground-plane vector to 3D at height z.
func FromPlanar(p cp.Vector, z float64) Vec3 {
	return Vec3{X: p.X, Y: p.Y, Z: z}
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) LengthSq() float64 {
	return v.Dot(v)
}

func (v Vec3) Length() float64 {
	return math.Sqrt(v.LengthSq())
}

// SafeNormal returns the unit vector of v, or the zero vector when v is too
// short to normalize.
func (v Vec3) SafeNormal() Vec3 {
	l := v.Length()
	if l < epsilon {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Planar drops the vertical component.
func (v Vec3) Planar() cp.Vector {
	return cp.Vector{X: v.X, Y: v.Y}
}

func (v Vec3) IsZero() bool {
	return v.LengthSq() < epsilon*epsilon
}

// DistSquared2D is the squared ground-plane distance between a and b.
func DistSquared2D(a, b Vec3) float64 {
	return a.Planar().DistanceSq(b.Planar())
}

func Distance2D(a, b Vec3) float64 {
	return a.Planar().Distance(b.Planar())
}

// PlanarHeading is the normalized ground-plane direction from a to b, or the
// zero vector when the points coincide on the plane.
func PlanarHeading(a, b Vec3) Vec3 {
	d := b.Planar().Sub(a.Planar())
	if d.Length() < epsilon {
		return Vec3{}
	}
	return FromPlanar(d.Normalize(), 0)
}

// AngleDegrees is the unsigned angle between a and b. Zero vectors yield 90.
func AngleDegrees(a, b Vec3) float64 {
	dot := Clamp(a.SafeNormal().Dot(b.SafeNormal()), -1, 1)
	return RadiansToDegrees(math.Acos(dot))
}

// Quat is a rotation quaternion.
type Quat struct {
	X, Y, Z, W float64
}

var QuatIdentity = Quat{W: 1}

// YawQuat rotates around the vertical axis by yaw radians.
func YawQuat(yaw float64) Quat {
	s, c := math.Sincos(yaw / 2)
	return Quat{Z: s, W: c}
}

// LookAt faces the ground-plane projection of dir. A vertical or zero dir
// yields the identity rotation.
func LookAt(dir Vec3) Quat {
	if math.Abs(dir.X) < epsilon && math.Abs(dir.Y) < epsilon {
		return QuatIdentity
	}
	return YawQuat(math.Atan2(dir.Y, dir.X))
}

func (q Quat) Yaw() float64 {
	return math.Atan2(2*(q.W*q.Z+q.X*q.Y), 1-2*(q.Y*q.Y+q.Z*q.Z))
}

// Forward rotates the +X axis by q.
func (q Quat) Forward() Vec3 {
	return Vec3{
		X: 1 - 2*(q.Y*q.Y+q.Z*q.Z),
		Y: 2 * (q.X*q.Y + q.W*q.Z),
		Z: 2 * (q.X*q.Z - q.W*q.Y),
	}
}
