package ecs

import "fmt"

// Entity is a handle to a world slot. The low half is the 1-based slot and
// the high half the slot's version; destroying an entity bumps the version,
// so a stale handle never matches a reused slot. The zero Entity is never
// issued.
type Entity uint64

type slotIndex uint32
type slotVersion uint32

const versionShift = 32

func handle(slot slotIndex, version slotVersion) Entity {
	return Entity(uint64(version)<<versionShift | uint64(slot))
}

func (e Entity) slot() slotIndex {
	return slotIndex(e & 0xffffffff)
}

func (e Entity) version() slotVersion {
	return slotVersion(e >> versionShift)
}

// String renders the handle as slot:version.
func (e Entity) String() string {
	return fmt.Sprintf("%d:%d", e.slot(), e.version())
}

func (e Entity) Valid() bool {
	return e.slot() != 0
}
