package server

import (
	"net/http"
	"strconv"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType,omitempty"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"` // Shading normal
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

// extractMaterialInfo describes a material and its parameters
func extractMaterialInfo(mat material.Material) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch m := mat.(type) {
	case *material.Lambertian:
		properties["albedo"] = textureInfo(m.Albedo)
		return "lambertian", properties

	case *material.Metal:
		properties["albedo"] = textureInfo(m.Albedo)
		properties["roughness"] = textureInfo(m.Roughness)
		return "metal", properties

	case *material.Dielectric:
		properties["ior"] = textureInfo(m.IOR)
		return "dielectric", properties

	case *material.DiffuseLight:
		properties["emit"] = textureInfo(m.Emit)
		return "diffuse_light", properties

	case *material.Phong:
		properties["albedo"] = textureInfo(m.Albedo)
		properties["exponent"] = m.Exponent
		return "phong", properties

	case *material.BlinnPhong:
		properties["albedo"] = textureInfo(m.Albedo)
		properties["exponent"] = m.Exponent
		return "blinn_phong", properties

	case *material.FresnelBlend:
		reflectedType, reflectedProps := extractMaterialInfo(m.Reflected)
		refractedType, refractedProps := extractMaterialInfo(m.Refracted)
		properties["ior"] = textureInfo(m.IOR)
		properties["reflected"] = map[string]interface{}{
			"name":       m.ReflectedName,
			"type":       reflectedType,
			"properties": reflectedProps,
		}
		properties["refracted"] = map[string]interface{}{
			"name":       m.RefractedName,
			"type":       refractedType,
			"properties": refractedProps,
		}
		return "fresnel_blend", properties

	default:
		return "unknown", properties
	}
}

// textureInfo renders a texture as a color triple or a nested description
func textureInfo(tex material.Texture) interface{} {
	switch t := tex.(type) {
	case *material.Constant:
		return [3]float64{t.Color.X, t.Color.Y, t.Color.Z}
	case *material.Checker:
		return map[string]interface{}{
			"type":  "checker",
			"even":  textureInfo(t.Even),
			"odd":   textureInfo(t.Odd),
			"scale": t.Scale,
		}
	default:
		return nil
	}
}

// inspectPixel casts a ray through the center of a pixel, without jitter
func inspectPixel(sceneObj *scene.Scene, pixelX, pixelY int) InspectResponse {
	ray := sceneObj.Camera.GenerateRay(float64(pixelX)+0.5, float64(pixelY)+0.5)
	hit, ok := sceneObj.Intersect(ray)
	if !ok {
		return InspectResponse{Hit: false}
	}

	materialType, properties := extractMaterialInfo(hit.Material)
	return InspectResponse{
		Hit:          true,
		MaterialType: materialType,
		Point:        vecArray(hit.P),
		Normal:       vecArray(hit.SN),
		Distance:     hit.T * ray.Direction.Length(),
		FrontFace:    ray.Direction.Dot(hit.GN) < 0,
		Properties:   properties,
	}
}

func vecArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid scene parameters: " + err.Error()})
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid x coordinate"})
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid y coordinate"})
		return
	}

	sceneObj, err := s.createScene(req, nil)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if pixelX < 0 || pixelX >= sceneObj.Camera.Width || pixelY < 0 || pixelY >= sceneObj.Camera.Height {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Pixel coordinates out of bounds"})
		return
	}

	writeJSON(w, http.StatusOK, inspectPixel(sceneObj, pixelX, pixelY))
}
