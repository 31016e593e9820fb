package game

import (
	"github.com/pthm-cable/emberfield/renderer"
	"github.com/pthm-cable/emberfield/systems"
)

// dragonLayer pairs the dragon chain with its renderer.
type dragonLayer struct {
	dragon   *systems.Dragon
	renderer *renderer.DragonRenderer
}

func (l *dragonLayer) Update(ptr systems.PointerState) { l.dragon.Update(ptr) }
func (l *dragonLayer) Draw(s renderer.Surface)         { l.renderer.Draw(s, l.dragon) }
func (l *dragonLayer) Resize(width, height float64)    { l.dragon.Resize(width, height) }

// numbersLayer pairs the drifting number field with its renderer.
type numbersLayer struct {
	field    *systems.NumberField
	renderer *renderer.NumberRenderer
}

func (l *numbersLayer) Update(ptr systems.PointerState) { l.field.Update(ptr) }
func (l *numbersLayer) Draw(s renderer.Surface)         { l.renderer.Draw(s, l.field) }
func (l *numbersLayer) Resize(width, height float64)    { l.field.Resize(width, height) }
