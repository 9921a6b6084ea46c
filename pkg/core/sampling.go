package core

import "math"

// ONB is an orthonormal basis built around a single axis (W)
type ONB struct {
	U, V, W Vec3
}

// NewONB builds a right-handed basis whose W axis is the given unit vector
func NewONB(w Vec3) ONB {
	// Duff et al., "Building an Orthonormal Basis, Revisited"
	sign := math.Copysign(1.0, w.Z)
	a := -1.0 / (sign + w.Z)
	b := w.X * w.Y * a
	u := NewVec3(1.0+sign*w.X*w.X*a, sign*b, -sign*w.X)
	v := NewVec3(b, sign+w.Y*w.Y*a, -w.Y)
	return ONB{U: u, V: v, W: w}
}

// ToWorld maps local coordinates (x along U, y along V, z along W) to world space
func (o ONB) ToWorld(local Vec3) Vec3 {
	return o.U.Multiply(local.X).Add(o.V.Multiply(local.Y)).Add(o.W.Multiply(local.Z))
}

// SampleCosineHemisphere generates a cosine-weighted direction in the hemisphere around normal
func SampleCosineHemisphere(normal Vec3, sample Vec2) Vec3 {
	phi := 2.0 * math.Pi * sample.X
	r := math.Sqrt(sample.Y)
	local := NewVec3(r*math.Cos(phi), r*math.Sin(phi), math.Sqrt(math.Max(0, 1.0-sample.Y)))
	return NewONB(normal).ToWorld(local)
}

// CosineHemispherePDF returns the solid-angle density of SampleCosineHemisphere
func CosineHemispherePDF(cosTheta float64) float64 {
	if cosTheta <= 0 {
		return 0
	}
	return cosTheta / math.Pi
}

// SampleOnUnitSphere generates a uniform random direction on the unit sphere
func SampleOnUnitSphere(sample Vec2) Vec3 {
	z := 1.0 - 2.0*sample.X // z ∈ [-1, 1]
	r := math.Sqrt(math.Max(0, 1.0-z*z))
	phi := 2.0 * math.Pi * sample.Y
	return NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)
}

// UniformSpherePDF is the solid-angle density of SampleOnUnitSphere
const UniformSpherePDF = 1.0 / (4.0 * math.Pi)

// SampleCone samples a direction uniformly within a cone around direction
func SampleCone(direction Vec3, cosThetaMax float64, sample Vec2) Vec3 {
	cosTheta := 1.0 - sample.X*(1.0-cosThetaMax)
	sinTheta := math.Sqrt(math.Max(0, 1.0-cosTheta*cosTheta))
	phi := 2.0 * math.Pi * sample.Y
	local := NewVec3(sinTheta*math.Cos(phi), sinTheta*math.Sin(phi), cosTheta)
	return NewONB(direction).ToWorld(local)
}

// UniformConePDF returns the solid-angle density of SampleCone
func UniformConePDF(cosThetaMax float64) float64 {
	return 1.0 / (2.0 * math.Pi * (1.0 - cosThetaMax))
}

// SampleCosinePower samples a direction around axis with density proportional to cos^exponent
func SampleCosinePower(axis Vec3, exponent float64, sample Vec2) Vec3 {
	cosTheta := math.Pow(sample.X, 1.0/(exponent+1.0))
	sinTheta := math.Sqrt(math.Max(0, 1.0-cosTheta*cosTheta))
	phi := 2.0 * math.Pi * sample.Y
	local := NewVec3(sinTheta*math.Cos(phi), sinTheta*math.Sin(phi), cosTheta)
	return NewONB(axis).ToWorld(local)
}

// CosinePowerPDF returns the solid-angle density of SampleCosinePower
func CosinePowerPDF(exponent, cosTheta float64) float64 {
	if cosTheta <= 0 {
		return 0
	}
	return (exponent + 1.0) / (2.0 * math.Pi) * math.Pow(cosTheta, exponent)
}

// SampleTriangle returns barycentric coordinates (b1, b2) distributed uniformly
// over a triangle, folding samples across the diagonal when b1+b2 > 1
func SampleTriangle(sample Vec2) (float64, float64) {
	a, b := sample.X, sample.Y
	if a+b > 1 {
		a = 1 - a
		b = 1 - b
	}
	return a, b
}

// Reflect reflects v about the normal n
func Reflect(v, n Vec3) Vec3 {
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}

// Refract refracts the unit vector uv through a surface with unit normal n
// facing against uv, where etaiOverEtat is the ratio of refractive indices
func Refract(uv, n Vec3, etaiOverEtat float64) Vec3 {
	cosTheta := math.Min(-uv.Dot(n), 1.0)
	rOutPerp := uv.Add(n.Multiply(cosTheta)).Multiply(etaiOverEtat)
	rOutParallel := n.Multiply(-math.Sqrt(math.Abs(1.0 - rOutPerp.LengthSquared())))
	return rOutPerp.Add(rOutParallel)
}

// Schlick returns Fresnel reflectance using Schlick's approximation
func Schlick(cosine, refractionRatio float64) float64 {
	r0 := (1 - refractionRatio) / (1 + refractionRatio)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}

// PowerHeuristic computes the MIS weight for strategy f using the power heuristic (β=2)
func PowerHeuristic(nf int, fPdf float64, ng int, gPdf float64) float64 {
	f := float64(nf) * fPdf
	g := float64(ng) * gPdf
	if f == 0 {
		return 0
	}
	if math.IsInf(f*f, 1) {
		return 1
	}
	return (f * f) / (f*f + g*g)
}
