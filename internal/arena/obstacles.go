package arena

import "time"

const (
	obstacleSpawnX = 1200
	airObstacleY   = 90
)

func (e *Engine) scheduleObstacle(room *Room) {
	if e.cfg.ObstacleInterval <= 0 {
		return
	}
	e.schedule(room, taskObstacles, e.cfg.ObstacleInterval, func(room *Room) {
		if room.State != statePlaying {
			return
		}
		e.spawnObstacle(room)
		e.scheduleObstacle(room)
	})
}

func (e *Engine) spawnObstacle(room *Room) Obstacle {
	now := e.now()
	pruneObstacles(room, now, e.cfg.ObstacleRetention)
	room.ObstacleSeq++
	obstacle := Obstacle{
		ID:        room.ObstacleSeq,
		Kind:      obstacleGround,
		Position:  Position{X: obstacleSpawnX},
		Timestamp: now,
	}
	if e.rng.IntN(2) == 1 {
		obstacle.Kind = obstacleAir
		obstacle.Position.Y = airObstacleY
	}
	room.Obstacles = append(room.Obstacles, obstacle)
	e.toRoom(room, EventObstacleSpawned, obstacleSpawned{
		ID:        obstacle.ID,
		Kind:      obstacle.Kind,
		Position:  obstacle.Position,
		Timestamp: obstacle.Timestamp.UnixMilli(),
	})
	return obstacle
}

// pruneObstacles drops obstacles older than retention. Obstacles are kept in
// spawn order, so the cut is a prefix.
func pruneObstacles(room *Room, now time.Time, retention time.Duration) {
	if retention <= 0 {
		return
	}
	cutoff := now.Add(-retention)
	keep := 0
	for keep < len(room.Obstacles) && room.Obstacles[keep].Timestamp.Before(cutoff) {
		keep++
	}
	if keep > 0 {
		room.Obstacles = append(room.Obstacles[:0], room.Obstacles[keep:]...)
	}
}
