package material

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

func newHit(normal core.Vec3, m Material) *HitInfo {
	return &HitInfo{
		T:        1,
		P:        core.NewVec3(0, 0, 0),
		GN:       normal,
		SN:       normal,
		Material: m,
	}
}

func randomVec2(random *rand.Rand) core.Vec2 {
	return core.NewVec2(random.Float64(), random.Float64())
}

// integratePDF estimates ∫pdf dΩ over the full sphere
func integratePDF(m Material, wi core.Vec3, hit *HitInfo, samples int, seed int64) float64 {
	random := rand.New(rand.NewSource(seed))
	sum := 0.0
	for i := 0; i < samples; i++ {
		wo := core.SampleOnUnitSphere(randomVec2(random))
		sum += m.PDF(wi, wo, hit) / core.UniformSpherePDF
	}
	return sum / float64(samples)
}

// checkSampleMatchesPDF compares E[g(wo)] under Sample against ∫g·pdf dΩ.
// Rejected samples count as g = 0 on both sides.
func checkSampleMatchesPDF(t *testing.T, m Material, wi core.Vec3, hit *HitInfo) {
	t.Helper()
	const n = 200000
	g := func(w core.Vec3) float64 { return 1 + w.X*w.X + 0.5*w.Y - 0.25*w.Z }

	random := rand.New(rand.NewSource(11))
	sampled := 0.0
	for i := 0; i < n; i++ {
		if srec, ok := m.Sample(wi, hit, randomVec2(random)); ok {
			sampled += g(srec.Wo)
		}
	}
	sampled /= n

	integrated := 0.0
	for i := 0; i < n; i++ {
		wo := core.SampleOnUnitSphere(randomVec2(random))
		integrated += g(wo) * m.PDF(wi, wo, hit) / core.UniformSpherePDF
	}
	integrated /= n

	if math.Abs(sampled-integrated) > 0.03*math.Abs(integrated)+1e-3 {
		t.Errorf("Sample and PDF disagree: E[g] sampled %f, integrated %f", sampled, integrated)
	}
}
