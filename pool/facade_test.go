package pool

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/dsugiyama/argobots/config"
	"github.com/dsugiyama/argobots/unit"
)

type FacadeTestSuite struct {
	suite.Suite
}

func TestFacadeTestSuite(t *testing.T) {
	suite.Run(t, new(FacadeTestSuite))
}

func (ts *FacadeTestSuite) TestAccessModeIsSPMC() {
	f := NewFacade()
	ts.Equal(AccessSPMC, f.AccessMode)
	ts.Equal("SPMC", f.AccessMode.String())
}

func (ts *FacadeTestSuite) TestInitPushPopRemoveSize() {
	f := NewFacade()
	d := f.Init(config.DefaultConfig())

	var slot unit.Unit
	f.FromTask(&slot, unit.Handle(1))
	ts.Equal(unit.KindTask, f.Type(&slot))
	ts.False(f.InPool(&slot))

	f.Push(d, &slot)
	ts.True(f.InPool(&slot))
	ts.Equal(1, f.Size(d))

	ts.True(f.Remove(d, &slot))
	ts.False(f.InPool(&slot))
	ts.Equal(0, f.Size(d))
}

func (ts *FacadeTestSuite) TestPopDelegatesToDeque() {
	f := NewFacade()
	d := f.Init(config.DefaultConfig())

	var slot unit.Unit
	f.FromThread(&slot, unit.Handle(2))
	f.Push(d, &slot)

	got := f.Pop(d)
	ts.Same(&slot, got)
	ts.Equal(unit.Handle(2), f.AsThread(got))
	ts.Equal(unit.NoHandle, f.AsTask(got))
}

func (ts *FacadeTestSuite) TestReleaseUnitClearsSlot() {
	f := NewFacade()
	u := unit.NewTask(unit.Handle(3))
	f.ReleaseUnit(&u)
	ts.Nil(u)
}

func (ts *FacadeTestSuite) TestFreeIsNoopAndSafe() {
	f := NewFacade()
	d := f.Init(config.DefaultConfig())
	f.Free(d)
}
