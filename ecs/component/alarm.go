package component

import "github.com/milk9111/stealth/alarm"

var AlarmComponent = NewComponent[alarm.Alarm]("alarm")
