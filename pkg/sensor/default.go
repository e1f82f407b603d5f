package sensor

// defaultCatalog is a typical phone: a back sensor mounted at 90 and a front
// sensor mounted at 270.
const defaultCatalog = `
[sensor.0]
name               = Back camera
facing             = back
orientation        = 90
preview_sizes      = 1920x1080, 1280x720, 960x720, 800x480, 720x480, 640x480, 352x288, 320x240, 176x144
picture_sizes      = 4032x3024, 3264x2448, 1920x1080, 1280x960, 640x480
flash_modes        = off, auto, on, torch
focus_modes        = auto, continuous-picture, continuous-video, macro, infinity, fixed
white_balance      = auto, incandescent, fluorescent, daylight, cloudy-daylight
scene_modes        = auto, action, portrait, landscape, night, sunset, party
color_effects      = none, mono, negative, sepia, aqua
min_exposure       = -4
max_exposure       = 4
max_zoom           = 30
max_focus_areas    = 1
max_metering_areas = 1
face_detection     = true

[sensor.1]
name               = Front camera
facing             = front
orientation        = 270
preview_sizes      = 1280x720, 640x480, 352x288, 320x240, 176x144
picture_sizes      = 2592x1944, 1280x720, 640x480
white_balance      = auto, incandescent, fluorescent, daylight
scene_modes        = auto, portrait, night
color_effects      = none, mono, sepia
focus_modes        = fixed
min_exposure       = -2
max_exposure       = 2
max_zoom           = 0
max_focus_areas    = 0
max_metering_areas = 1
face_detection     = true
`

// DefaultCatalog returns the built-in two-sensor catalog.
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog([]byte(defaultCatalog))
	if err != nil {
		panic("sensor: built-in catalog: " + err.Error())
	}
	return c
}
