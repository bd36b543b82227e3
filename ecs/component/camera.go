package component

import "github.com/milk9111/stealth/camera"

var SecurityCameraComponent = NewComponent[camera.SecurityCamera]("security_camera")
