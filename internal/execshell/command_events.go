package execshell

// CommandEventObserver receives lifecycle notifications for shell command execution.
type CommandEventObserver interface {
	// CommandStarted notifies observers that command execution is beginning.
	CommandStarted(command ShellCommand)
	// CommandCompleted notifies observers that command execution finished and supplies the result.
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed reports unexpected failures prior to receiving an execution result.
	CommandExecutionFailed(command ShellCommand, failure error)
}

type noopCommandEventObserver struct{}

func (noopCommandEventObserver) CommandStarted(ShellCommand) {}

func (noopCommandEventObserver) CommandCompleted(ShellCommand, ExecutionResult) {}

func (noopCommandEventObserver) CommandExecutionFailed(ShellCommand, error) {}

// observerGroup forwards every event to each member in registration order.
type observerGroup []CommandEventObserver

func newObserverGroup(observers []CommandEventObserver) CommandEventObserver {
	members := make(observerGroup, 0, len(observers))
	for _, observer := range observers {
		if observer == nil {
			continue
		}
		members = append(members, observer)
	}
	switch len(members) {
	case 0:
		return noopCommandEventObserver{}
	case 1:
		return members[0]
	default:
		return members
	}
}

func (group observerGroup) CommandStarted(command ShellCommand) {
	for _, observer := range group {
		observer.CommandStarted(command)
	}
}

func (group observerGroup) CommandCompleted(command ShellCommand, result ExecutionResult) {
	for _, observer := range group {
		observer.CommandCompleted(command, result)
	}
}

func (group observerGroup) CommandExecutionFailed(command ShellCommand, failure error) {
	for _, observer := range group {
		observer.CommandExecutionFailed(command, failure)
	}
}
