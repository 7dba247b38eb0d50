package world

import (
	"fmt"
	"math/rand"

	"github.com/rs/zerolog/log"
)

const employeeSprites = 9

// RandomizeEmployeeSprites assigns a shuffled employee spritesheet to
// every npc that was authored without an explicit sprite_key. Floors are
// walked in number order and objects in authoring order, so a seeded rng
// makes the cast deterministic. Returns how many npcs were dressed.
func (b *Building) RandomizeEmployeeSprites(rng *rand.Rand) int {
	pool := make([]string, employeeSprites)
	for i := range pool {
		pool[i] = fmt.Sprintf("employee_%d", i+1)
	}
	rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	assigned := 0
	for _, number := range b.AllFloors() {
		floor := b.floors[number]
		for i := range floor.Objects {
			obj := &floor.Objects[i]
			if obj.Kind != KindNPC {
				continue
			}
			if key, ok := obj.Props.String("sprite_key"); ok && key != "" {
				continue
			}

			if obj.Props == nil {
				obj.Props = make(Props)
			}
			obj.Props["sprite_key"] = pool[assigned%len(pool)]
			assigned++
		}
	}

	log.Debug().Int("npcs", assigned).Msg("employee sprites randomized")
	return assigned
}
