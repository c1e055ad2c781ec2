// Package bramble is a composable entity runtime for [Ebitengine].
//
// Bramble assembles game objects at runtime from small components, turns
// pointer input into discrete interaction states, and plays frame-based
// sprite animations, all driven by the ebiten tick.
//
// # Quick start
//
//	ctx := &bramble.Context{Assets: assets, Logger: logger}
//	world := bramble.NewWorld(ctx)
//
//	sprite, _ := bramble.NewSprite(bramble.SpriteConfig{
//		Image:       assets.Image("button"),
//		Origin:      bramble.Vec2{X: 0.5, Y: 0.5},
//		FrameWidth:  64,
//		FrameHeight: 32,
//		Animations: map[string]bramble.Animation{
//			"idle": {Frames: []int{0}},
//			"hold": {Frames: []int{1}},
//		},
//	})
//	button, _ := world.Spawn(bramble.EntityConfig{
//		Name: "play",
//		Pos:  bramble.Vec2{X: 320, Y: 240},
//		Components: []bramble.Component{
//			sprite,
//			bramble.NewClickable(bramble.ClickableConfig{
//				OnHoldEnd:  func(bramble.ClickContext) error { return screens.Show("game") },
//				Animations: bramble.ClickAnimations{Idle: "idle", Hold: "hold"},
//			}),
//		},
//	})
//
// Call [World.Update] and [World.Draw] from your ebiten.Game, or register
// worlds with [Screens] and pass it to [Run].
//
// # Entities and capabilities
//
// An [Entity] owns an ordered list of components. Each component is
// registered under its name in the entity's capability registry; names must
// be unique unless [Override] is passed. Ad-hoc operations can be merged with
// [Entity.Extend]. Look capabilities up with [Get]:
//
//	sprite, ok := bramble.Get[*bramble.Sprite](button, bramble.CapSprite)
//
// Lifecycle hooks are optional interfaces: [Starter], [Updater], [Drawer],
// [Destroyer] and [PointerHandler].
//
// # Collaborators
//
// Asset lookup, event broadcast, screen switching and audio are reached
// through the [Context] passed to [NewWorld] and [NewEntity]. Concrete
// implementations are provided by [Assets], [SoundBank], [Screens] and, for
// Donburi worlds, the bramble/ecs package.
//
// [Ebitengine]: https://ebitengine.org
package bramble
