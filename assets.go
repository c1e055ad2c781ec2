package bramble

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	_ "image/png" // PNG decoder for LoadImage
	"io/fs"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"go.uber.org/zap"
)

// AssetProvider resolves image keys to image handles.
type AssetProvider interface {
	Image(key string) *ebiten.Image
}

// Assets is an in-memory AssetProvider holding whole images and atlas
// regions under string keys.
type Assets struct {
	images map[string]*ebiten.Image
	log    *zap.Logger
}

// NewAssets creates an empty store. A nil logger discards warnings.
func NewAssets(log *zap.Logger) *Assets {
	if log == nil {
		log = zap.NewNop()
	}
	return &Assets{images: make(map[string]*ebiten.Image), log: log}
}

// AddImage stores img under key, replacing any previous entry.
func (a *Assets) AddImage(key string, img *ebiten.Image) {
	a.images[key] = img
}

// LoadImage decodes the file at path in fsys and stores it under key.
func (a *Assets) LoadImage(fsys fs.FS, key, path string) error {
	img, _, err := ebitenutil.NewImageFromFileSystem(fsys, path)
	if err != nil {
		return fmt.Errorf("bramble: load image %s: %w", path, err)
	}
	a.images[key] = img
	return nil
}

// Has reports whether key is stored.
func (a *Assets) Has(key string) bool {
	_, ok := a.images[key]
	return ok
}

// Image returns the image for key. If the key doesn't exist, it logs a
// warning and returns a 1x1 magenta placeholder.
func (a *Assets) Image(key string) *ebiten.Image {
	if img, ok := a.images[key]; ok {
		return img
	}
	a.log.Warn("image not found, using magenta placeholder", zap.String("key", key))
	return ensureMagentaImage()
}

// magenta placeholder singleton (no sync.Once: bramble is single-threaded)
var magentaImage *ebiten.Image

func ensureMagentaImage() *ebiten.Image {
	if magentaImage == nil {
		magentaImage = ebiten.NewImage(1, 1)
		magentaImage.Fill(color.RGBA{R: 255, G: 0, B: 255, A: 255})
	}
	return magentaImage
}

// --- TexturePacker atlases ---

// LoadAtlas parses TexturePacker JSON and stores every frame as a sub-image
// of its page under the frame name. Supports both the hash format (single
// "frames" object) and the array format ("textures" array with per-page
// frame lists). Rotated frames are skipped with a warning.
func (a *Assets) LoadAtlas(jsonData []byte, pages []*ebiten.Image) error {
	// Probe top-level keys to detect format.
	var probe struct {
		Frames   json.RawMessage `json:"frames"`
		Textures json.RawMessage `json:"textures"`
	}
	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return fmt.Errorf("bramble: failed to parse atlas JSON: %w", err)
	}

	switch {
	case probe.Textures != nil:
		var textures []jsonTexturePage
		if err := json.Unmarshal(probe.Textures, &textures); err != nil {
			return fmt.Errorf("bramble: failed to parse atlas textures array: %w", err)
		}
		for i, tex := range textures {
			if err := a.addFrames(tex.Frames, i, pages); err != nil {
				return err
			}
		}
	case probe.Frames != nil:
		var frames map[string]jsonFrame
		if err := json.Unmarshal(probe.Frames, &frames); err != nil {
			return fmt.Errorf("bramble: failed to parse atlas frames: %w", err)
		}
		if err := a.addFrames(frames, 0, pages); err != nil {
			return err
		}
	default:
		return fmt.Errorf("bramble: atlas JSON has neither \"frames\" nor \"textures\" key")
	}
	return nil
}

func (a *Assets) addFrames(frames map[string]jsonFrame, page int, pages []*ebiten.Image) error {
	if page >= len(pages) || pages[page] == nil {
		return fmt.Errorf("bramble: atlas page %d has no image", page)
	}
	img := pages[page]
	for name, f := range frames {
		if f.Rotated {
			a.log.Warn("rotated atlas frame not supported", zap.String("frame", name))
			continue
		}
		r := image.Rect(f.Frame.X, f.Frame.Y, f.Frame.X+f.Frame.W, f.Frame.Y+f.Frame.H).
			Add(img.Bounds().Min)
		a.images[name] = img.SubImage(r).(*ebiten.Image)
	}
	return nil
}

// --- JSON structure types ---

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Frame   jsonRect `json:"frame"`
	Rotated bool     `json:"rotated"`
}

type jsonTexturePage struct {
	Image  string               `json:"image"`
	Frames map[string]jsonFrame `json:"frames"`
}
