package roadnet

// CreateEdgeAttribute registers named time-varying attribute of edges
func (graph *Graph) CreateEdgeAttribute(name string) error {
	if _, ok := graph.edgeAttributes[name]; ok {
		return structureErrorf("edge attribute '%s' already exists in graph %s", name, graph.name)
	}
	graph.edgeAttributes[name] = make(map[EdgeID]TimeSeries)
	return nil
}

// CreateMovementAttribute registers named time-varying attribute of movements
func (graph *Graph) CreateMovementAttribute(name string) error {
	if _, ok := graph.movementAttributes[name]; ok {
		return structureErrorf("movement attribute '%s' already exists in graph %s", name, graph.name)
	}
	graph.movementAttributes[name] = make(map[MovementID]TimeSeries)
	return nil
}

func (graph *Graph) HasEdgeAttribute(name string) bool {
	_, ok := graph.edgeAttributes[name]
	return ok
}

func (graph *Graph) HasMovementAttribute(name string) bool {
	_, ok := graph.movementAttributes[name]
	return ok
}

// SetEdgeAttribute stores values of the attribute for existing edge
func (graph *Graph) SetEdgeAttribute(name string, id EdgeID, values TimeSeries) error {
	table, ok := graph.edgeAttributes[name]
	if !ok {
		return structureErrorf("edge attribute '%s' does not exist in graph %s", name, graph.name)
	}
	if _, ok := graph.edges[id]; !ok {
		return structureErrorf("edge %s does not exist in graph %s", id, graph.name)
	}
	table[id] = values.Clone()
	return nil
}

// EdgeAttribute returns values of the attribute for the edge
func (graph *Graph) EdgeAttribute(name string, id EdgeID) (TimeSeries, bool) {
	values, ok := graph.edgeAttributes[name][id]
	if !ok {
		return nil, false
	}
	return values.Clone(), true
}

// SetMovementAttribute stores values of the attribute for existing movement
func (graph *Graph) SetMovementAttribute(name string, id MovementID, values TimeSeries) error {
	table, ok := graph.movementAttributes[name]
	if !ok {
		return structureErrorf("movement attribute '%s' does not exist in graph %s", name, graph.name)
	}
	if _, err := graph.Movement(id.Upstream, id.Through, id.Downstream); err != nil {
		return err
	}
	table[id] = values.Clone()
	return nil
}

// MovementAttribute returns values of the attribute for the movement
func (graph *Graph) MovementAttribute(name string, id MovementID) (TimeSeries, bool) {
	values, ok := graph.movementAttributes[name][id]
	if !ok {
		return nil, false
	}
	return values.Clone(), true
}

func (graph *Graph) dropEdgeAttributes(id EdgeID) {
	for _, table := range graph.edgeAttributes {
		delete(table, id)
	}
}

func (graph *Graph) dropMovementAttributes(id MovementID) {
	for _, table := range graph.movementAttributes {
		delete(table, id)
	}
}
