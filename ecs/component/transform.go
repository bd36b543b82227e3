package component

import "github.com/milk9111/stealth/common"

var TransformComponent = NewComponent[common.Transform]("transform")
