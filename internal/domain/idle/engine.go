package idle

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"idlerpg/internal/domain/catalog"
)

// Engine advances the single action slot and applies completions. It is not
// safe for concurrent use; callers serialise access.
type Engine struct {
	k        *kernel
	rng      *rand.Rand
	Ledger   *Ledger
	Skills   *Progression
	Upgrades *Upgrades
}

type Option func(*Engine)

func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.k.now = now }
}

func WithBus(b *Bus) Option {
	return func(e *Engine) { e.k.bus = b }
}

// New wires an engine over cat and st. A nil st starts a fresh session.
func New(cat *catalog.Catalog, st *State, opts ...Option) *Engine {
	if st == nil {
		st = NewState(cat)
	}
	k := &kernel{cat: cat, st: st, bus: NewBus(), now: time.Now}
	e := &Engine{k: k}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x1d1e))
	}
	e.Ledger = &Ledger{k: k}
	e.Skills = &Progression{k: k}
	e.Upgrades = &Upgrades{k: k, ledger: e.Ledger}
	return e
}

func (e *Engine) State() *State {
	return e.k.st
}

func (e *Engine) Catalog() *catalog.Catalog {
	return e.k.cat
}

func (e *Engine) Bus() *Bus {
	return e.k.bus
}

func (e *Engine) Now() time.Time {
	return e.k.now()
}

// Replace swaps in a restored state. Components share the kernel so they see
// the new state immediately.
func (e *Engine) Replace(st *State) {
	e.k.st = st
}

func (e *Engine) Current() (*ActionState, bool) {
	return e.action(e.k.st.CurrentAction)
}

func (e *Engine) action(id string) (*ActionState, bool) {
	if id == "" {
		return nil, false
	}
	a, ok := e.k.st.Actions[id]
	return a, ok
}

// StartAction is the boolean form of Start.
func (e *Engine) StartAction(id string) bool {
	return e.Start(id) == nil
}

// CanStart reports why Start would refuse id, without side effects.
func (e *Engine) CanStart(id string) error {
	a, ok := e.action(id)
	if !ok {
		return fail(ReasonUnknownID, id)
	}
	if !a.Unlocked {
		return fail(ReasonLocked, id)
	}
	if a.Exhausted() {
		return fail(ReasonSoldOut, id)
	}
	if a.Rest {
		return nil
	}
	return e.affordable(id)
}

// Start makes id the current action. An unaffordable non-rest action records
// itself as previous and sends the character to rest instead; the returned
// error still reports the shortfall.
func (e *Engine) Start(id string) error {
	if err := e.CanStart(id); err != nil {
		if errors.Is(err, ErrInsufficient) || errors.Is(err, ErrMissingResource) {
			e.fallBackToRest(id, err)
		}
		return err
	}
	e.k.st.PreviousAction = ""
	e.begin(e.k.st.Actions[id], EventActionStarted)
	return nil
}

func (e *Engine) affordable(id string) error {
	def := e.k.cat.Actions[id]
	return e.Ledger.Covers(def.StatPoolCosts, def.CurrencyCosts)
}

// begin switches the slot to a without touching its progress.
func (e *Engine) begin(a *ActionState, t EventType) {
	st := e.k.st
	st.CurrentAction = a.ID
	a.LastActionStartTime = e.k.now()
	name := e.k.actionName(a.ID)
	msg := "Started " + name + "."
	if a.Progress > 0 {
		if t == EventActionStarted {
			t = EventActionResumed
		}
		msg = fmt.Sprintf("Resumed %s at %d%%.", name, int(math.Floor(a.Progress*100)))
	}
	e.k.narrate(t, msg, map[string]any{"action": a.ID, "progress": a.Progress})
}

// fallBackToRest parks prev and starts the default rest action. Without a
// usable rest action the slot goes idle.
func (e *Engine) fallBackToRest(prev string, cause error) {
	st := e.k.st
	st.PreviousAction = prev
	missing := ""
	var re *ReasonError
	if errors.As(cause, &re) {
		missing = e.k.poolName(re.ID)
	}
	rest, ok := e.action(st.DefaultRestAction)
	if !ok || !rest.Unlocked {
		st.CurrentAction = ""
		e.k.narrate(EventForcedRest, fmt.Sprintf("Not enough %s for %s, and nowhere to rest.", missing, e.k.actionName(prev)), map[string]any{
			"action": prev,
		})
		return
	}
	e.k.narrate(EventForcedRest, fmt.Sprintf("Not enough %s for %s. Resting.", missing, e.k.actionName(prev)), map[string]any{
		"action": prev,
		"rest":   rest.ID,
	})
	e.begin(rest, EventActionStarted)
}

// StopCurrentAction pauses the slot, keeping progress, and reports what was
// stopped.
func (e *Engine) StopCurrentAction() (string, bool) {
	st := e.k.st
	id := st.CurrentAction
	st.CurrentAction = ""
	st.PreviousAction = ""
	a, ok := e.action(id)
	if !ok {
		return "", false
	}
	e.k.narrate(EventActionStopped, fmt.Sprintf("Paused %s at %d%%.", e.k.actionName(id), int(math.Floor(a.Progress*100))), map[string]any{
		"action":   id,
		"progress": a.Progress,
	})
	return id, true
}

// Tick is one driver step: passive generation, action progress, then the
// unlock sweep.
func (e *Engine) Tick(delta time.Duration) {
	if delta <= 0 {
		return
	}
	e.Ledger.Regenerate(delta)
	e.Update(delta)
	e.RefreshUnlocks()
}

// Update advances the current action by delta. At most one completion fires
// per call and any overflow past 100% is discarded.
func (e *Engine) Update(delta time.Duration) {
	st := e.k.st
	a, ok := e.action(st.CurrentAction)
	if !ok {
		return
	}
	if a.Rest {
		if e.returnFromRest(a) {
			return
		}
	} else if err := e.affordable(a.ID); err != nil {
		e.fallBackToRest(a.ID, err)
		return
	}
	if delta <= 0 {
		return
	}
	if a.BaseDurationMS <= 0 {
		a.Progress = 1
	} else {
		a.Progress += float64(delta) / float64(a.BaseDuration())
	}
	if a.Progress >= 1 {
		e.complete(a)
	}
}

// returnFromRest restarts the parked action once every stat pool is full.
func (e *Engine) returnFromRest(rest *ActionState) bool {
	st := e.k.st
	if rest.ID != st.DefaultRestAction || st.PreviousAction == "" || !st.StatPoolsFull() {
		return false
	}
	prev, ok := e.action(st.PreviousAction)
	st.PreviousAction = ""
	if !ok {
		return false
	}
	msg := ""
	if !prev.Unlocked || prev.Exhausted() {
		msg = fmt.Sprintf("%s is no longer available. Still resting.", e.k.actionName(prev.ID))
	} else if err := e.affordable(prev.ID); err != nil {
		missing := ""
		var re *ReasonError
		if errors.As(err, &re) {
			missing = e.k.poolName(re.ID)
		}
		msg = fmt.Sprintf("Not enough %s to go back to %s. Still resting.", missing, e.k.actionName(prev.ID))
	}
	if msg != "" {
		e.k.narrate(EventForcedRest, msg, map[string]any{"action": prev.ID, "rest": rest.ID})
		return false
	}
	e.begin(prev, EventRestReturn)
	return true
}

func (e *Engine) complete(a *ActionState) {
	st := e.k.st
	def := e.k.cat.Actions[a.ID]
	e.Ledger.charge(def.StatPoolCosts, def.CurrencyCosts)

	var gained []string
	rewards := map[string]int64{}
	for _, id := range catalog.SortedKeys(def.CurrencyRewards) {
		n := def.CurrencyRewards[id].Scale(a.RewardScale).Resolve(e.rng)
		if n <= 0 {
			continue
		}
		applied, err := e.Ledger.Grant(id, float64(n))
		if err != nil {
			continue
		}
		rewards[id] = n
		gained = append(gained, fmt.Sprintf("+%s %s", formatAmount(applied), e.k.poolName(id)))
	}
	for _, id := range catalog.SortedKeys(def.SkillExperience) {
		n := def.SkillExperience[id].Scale(a.RewardScale).Resolve(e.rng)
		if n <= 0 {
			continue
		}
		if err := e.Skills.AddXP(id, n); err != nil {
			continue
		}
		rewards[id+"_xp"] = n
		gained = append(gained, fmt.Sprintf("+%d %s XP", n, e.k.skillName(id)))
	}
	for _, id := range catalog.SortedKeys(def.StatPoolRestoration) {
		n := def.StatPoolRestoration[id].Scale(a.RewardScale).Resolve(e.rng)
		if n <= 0 {
			continue
		}
		applied, err := e.Ledger.Grant(id, float64(n))
		if err != nil {
			continue
		}
		rewards[id] = n
		gained = append(gained, fmt.Sprintf("+%s %s", formatAmount(applied), e.k.poolName(id)))
	}
	if a.CompletionCount == 0 {
		for _, loc := range def.DiscoverLocations {
			_ = e.DiscoverLocation(loc)
		}
	}

	a.CompletionCount++
	a.TotalTimeSpentMS += a.BaseDurationMS
	a.Progress = 0
	a.LastActionStartTime = e.k.now()

	msg := "Completed " + e.k.actionName(a.ID) + "."
	if len(gained) > 0 {
		msg = "Completed " + e.k.actionName(a.ID) + ": " + strings.Join(gained, ", ") + "."
	}
	e.k.narrate(EventActionCompleted, msg, map[string]any{
		"action":      a.ID,
		"completions": a.CompletionCount,
		"rewards":     rewards,
	})

	e.improve(a)
	if a.Exhausted() {
		st.CurrentAction = ""
		st.PreviousAction = ""
		e.k.narrate(EventActionExhausted, e.k.actionName(a.ID)+" can no longer be performed.", map[string]any{"action": a.ID})
	}
	e.RefreshUnlocks()
}

// improve applies every escalation rule that fires at the new completion count.
func (e *Engine) improve(a *ActionState) {
	for _, imp := range e.k.cat.Tuning.Improvements {
		if imp.AtCompletions != a.CompletionCount || (imp.Action != "" && imp.Action != a.ID) {
			continue
		}
		if imp.DurationMultiplier > 0 {
			a.BaseDurationMS = max(1, int64(math.Round(float64(a.BaseDurationMS)*imp.DurationMultiplier)))
		}
		if imp.RewardMultiplier > 0 {
			a.RewardScale *= imp.RewardMultiplier
		}
		e.k.narrate(EventActionImproved, fmt.Sprintf("You have become better at %s.", e.k.actionName(a.ID)), map[string]any{
			"action":       a.ID,
			"duration_ms":  a.BaseDurationMS,
			"reward_scale": a.RewardScale,
		})
	}
}

// RefreshUnlocks runs every unlock sweep once and reports whether anything
// became available.
func (e *Engine) RefreshUnlocks() bool {
	changed := e.Ledger.CheckUnlocks()
	if e.Skills.CheckUnlocks() {
		changed = true
	}
	st := e.k.st
	for _, id := range catalog.SortedKeys(st.Actions) {
		a := st.Actions[id]
		if a.Unlocked || a.Exhausted() || !e.k.requirementsMet(e.k.cat.Actions[id].Requirements) {
			continue
		}
		a.Unlocked = true
		e.k.narrate(EventUnlocked, "New action: "+e.k.actionName(id)+".", map[string]any{"kind": "action", "id": id})
		changed = true
	}
	if e.Upgrades.CheckUnlocks() {
		changed = true
	}
	for _, id := range catalog.SortedKeys(st.Homes) {
		h := st.Homes[id]
		def := e.k.cat.Homes[id]
		if h.Unlocked || !e.k.requirementsMet(def.Requirements) {
			continue
		}
		h.Unlocked = true
		e.k.narrate(EventUnlocked, "New home available: "+displayName(def.Name, id)+".", map[string]any{"kind": "home", "id": id})
		changed = true
	}
	return changed
}

func displayName(name, id string) string {
	if name == "" {
		return id
	}
	return name
}

func formatAmount(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
