package component

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]("player_tag")

type GuardTag struct{}

var GuardTagComponent = NewComponent[GuardTag]("guard_tag")
