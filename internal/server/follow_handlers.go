package server

import (
	"github.com/gofiber/fiber/v2"
)

// FollowUser handles POST /api/users/:id/follow
func (s *Server) FollowUser(c *fiber.Ctx) error {
	followerID, err := s.requireUserID(c)
	if err != nil {
		return nil
	}
	followingID, err := s.requireParam(c, "id")
	if err != nil {
		return nil
	}

	if err := s.followService.Follow(c.UserContext(), followerID, followingID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User followed successfully"})
}

// UnfollowUser handles DELETE /api/users/:id/follow
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	followerID, err := s.requireUserID(c)
	if err != nil {
		return nil
	}
	followingID, err := s.requireParam(c, "id")
	if err != nil {
		return nil
	}

	if err := s.followService.Unfollow(c.UserContext(), followerID, followingID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User unfollowed successfully"})
}

// GetFollowers handles GET /api/users/:id/followers
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	userID, err := s.requireParam(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 50)

	followers, err := s.followService.ListFollowers(c.UserContext(), userID, p.Page, p.Size)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(followers)
}

// GetFollowing handles GET /api/users/:id/following
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	userID, err := s.requireParam(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 50)

	following, err := s.followService.ListFollowing(c.UserContext(), userID, p.Page, p.Size)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(following)
}
